package main

import (
	"os"

	"github.com/sanntiSG/carAPP/routes"
	"github.com/sanntiSG/carAPP/services"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeCloudinary()

	services.Mail = services.NewMailQueue(services.NewSenderFromEnv())

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the storefront and the admin dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	adminOnly := []iris.Handler{accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware}

	car := app.Party("/api/cars")
	{
		car.Get("/", routes.GetCars)
		car.Get("/{id:uint}", routes.GetCar)
		car.Post("/", append(adminOnly, routes.CreateCar)...)
		car.Put("/{id:uint}", append(adminOnly, routes.UpdateCar)...)
		car.Delete("/{id:uint}", append(adminOnly, routes.DeleteCar)...)
	}

	reservation := app.Party("/api/reservations")
	{
		reservation.Post("/", routes.CreateReservation)
		reservation.Post("/cancel/{code}", routes.CancelReservation)
		reservation.Get("/", append(adminOnly, routes.AdminListReservations)...)
		reservation.Patch("/{id:uint}/status", append(adminOnly, routes.AdminUpdateReservationStatus)...)
	}

	auth := app.Party("/api/auth")
	{
		auth.Post("/login", routes.AdminLogin)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	settings := app.Party("/api/settings")
	{
		settings.Get("/hours", routes.GetDealershipHours)
		settings.Post("/", append(adminOnly, routes.AdminUpsertSetting)...)
	}

	shortlinks := app.Party("/s")
	{
		shortlinks.Post("/shorten", routes.CreateShortLink)
		shortlinks.Get("/{code}", routes.RedirectShortLink)
	}

	admin := app.Party("/api/admin", adminOnly...)
	{
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
		admin.Post("/export", routes.AdminCreateExport)
		admin.Get("/export/{id}", routes.AdminGetExport)
		admin.Get("/export/{id}/download", routes.AdminDownloadExport)
		admin.Post("/upload/image", routes.UploadImage)
		admin.Delete("/upload/image", routes.DeleteUploadedImage)
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok", "env": os.Getenv("APP_ENV")})
	})

	// Background expiry sweep, independent of request handling
	stop := make(chan struct{})
	defer close(stop)
	go services.Sweeper.Run(stop)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	app.Listen(":" + port)
}
