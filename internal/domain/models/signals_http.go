package models

// SignalsRequest filters the signal listing. Bounds are inclusive day keys.
type SignalsRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// SignalRequest addresses one day's signal.
type SignalRequest struct {
	Date string `param:"date" validate:"required,datetime=2006-01-02"`
}
