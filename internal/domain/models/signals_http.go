package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Pair    string `param:"pair" query:"pair" json:"pair" validate:"required"`
	Refresh bool   `query:"refresh" json:"refresh"`
}

type BatchSignalRequest struct {
	Pairs   []string `json:"pairs" validate:"required,min=1,max=50,dive,required"`
	Refresh bool     `json:"refresh"`
}

type PriceRequest struct {
	Pair string `param:"pair" query:"pair" json:"pair" validate:"required"`
}

type CandlesRequest struct {
	Pair  string `param:"pair" query:"pair" json:"pair" validate:"required"`
	TF    string `query:"tf" json:"tf"`
	Count int    `query:"count" json:"count" default:"100" validate:"gte=1,lte=500"`
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
}
