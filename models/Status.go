package models

// CarStatus is the availability state of a car in inventory.
type CarStatus string

const (
	CarAvailable   CarStatus = "AVAILABLE"
	CarReserved    CarStatus = "RESERVED"
	CarStandby     CarStatus = "STANDBY"
	CarNegotiation CarStatus = "NEGOTIATION"
	CarSold        CarStatus = "SOLD"
	CarVisited     CarStatus = "VISITED"
)

// ReservationStatus is the state of a single booking attempt.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationWaiting   ReservationStatus = "WAITING"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// CarStatusAfterOutcome maps a terminal reservation outcome to the car status
// it implies when the admin does not pick one explicitly.
var CarStatusAfterOutcome = map[ReservationStatus]CarStatus{
	ReservationCompleted: CarVisited,
	ReservationCancelled: CarAvailable,
	ReservationExpired:   CarAvailable,
}

// Bookable reports whether a car in this status accepts a new reservation.
func (s CarStatus) Bookable() bool {
	return s == CarAvailable || s == CarStandby
}

func (s ReservationStatus) Terminal() bool {
	return s == ReservationCancelled || s == ReservationCompleted || s == ReservationExpired
}
