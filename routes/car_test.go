package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"github.com/kataras/iris/v12"
)

func buildCatalogApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		car := app.Party("/api/cars")
		car.Get("/", GetCars)
		car.Get("/{id:uint}", GetCar)
	})
}

func getPath(app *iris.Application, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func seedCatalog(t *testing.T) []models.Car {
	t.Helper()
	cars := []models.Car{
		{Brand: "Toyota", CarModel: "Corolla", Year: 2021, Price: 18500, Status: models.CarAvailable},
		{Brand: "Honda", CarModel: "Civic", Year: 2020, Price: 17200, Status: models.CarReserved},
		{Brand: "Ford", CarModel: "Ranger", Year: 2022, Price: 32750, Status: models.CarAvailable},
	}
	for i := range cars {
		if err := storage.DB.Create(&cars[i]).Error; err != nil {
			t.Fatalf("failed to seed car: %v", err)
		}
	}
	return cars
}

func TestGetCarsFilters(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp(t)
	seedCatalog(t)

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?status=AVAILABLE", 2},
		{"?status=RESERVED", 1},
		{"?year=2022", 1},
		{"?minPrice=18000", 2},
		{"?maxPrice=18000", 1},
		{"?minPrice=18000&maxPrice=20000", 1},
	}
	for _, tc := range cases {
		resp := getPath(app, "/api/cars/"+tc.query)
		if resp.Code != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", tc.query, resp.Code)
		}
		var got []models.Car
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatalf("%q: failed to decode: %v", tc.query, err)
		}
		if len(got) != tc.want {
			t.Errorf("%q: returned %d cars, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestGetCarCountsViews(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp(t)
	cars := seedCatalog(t)

	path := fmt.Sprintf("/api/cars/%d", cars[0].ID)
	for i := 0; i < 3; i++ {
		if resp := getPath(app, path); resp.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.Code)
		}
	}

	var got models.Car
	if err := storage.DB.First(&got, cars[0].ID).Error; err != nil {
		t.Fatalf("failed to reload car: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("views = %d, want 3", got.Views)
	}
}

func TestGetCarNotFound(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp(t)

	if resp := getPath(app, "/api/cars/9999"); resp.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.Code)
	}
}
