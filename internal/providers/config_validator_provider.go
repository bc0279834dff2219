package providers

import (
	"errors"
	"fmt"
	"github.com/gookit/validate"
	"time"
	"tourvisto/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	switch cv.conf.Storage.Driver {
	case "mongo":
		if cv.conf.Mongo.URI == "" {
			return errors.New("invalid config: mongo.uri is required for the mongo storage driver")
		}
	}

	if cv.conf.Dashboard.Timezone != "" {
		if _, err := time.LoadLocation(cv.conf.Dashboard.Timezone); err != nil {
			return fmt.Errorf("invalid config: dashboard.timezone: %w", err)
		}
	}

	return nil
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}
