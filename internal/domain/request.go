package domain

import (
	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New()

// MCTRequest describes a minimum connection time submission for an
// airport and a pair of carriers.
type MCTRequest struct {
	Airport       string `json:"airport" validate:"len=3"`
	OriginCarrier string `json:"origin_carrier" validate:"len=2"`
	DestCarrier   string `json:"dest_carrier" validate:"len=2"`
	Time          int    `json:"time"`
	SenderMailID  string `json:"sender_mail_id"`
}

// Validate runs the structural checks: a three character airport code and
// two character origin and destination carrier codes. Nothing else is
// checked; the codes are not looked up.
func (r MCTRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return ErrInvalidMCTData
	}
	return nil
}

// Valid reports whether the request passes Validate.
func (r MCTRequest) Valid() bool {
	return r.Validate() == nil
}
