// Package services is the front-desk engine: room catalog, occupancy,
// restaurant orders, checkout and the bill ledger.
package services

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hotel-frontdesk/clock"
	"hotel-frontdesk/lock"
	"hotel-frontdesk/metrics"
	"hotel-frontdesk/repository"
)

// Deps are the collaborators shared by every front desk service.
type Deps struct {
	Store   repository.Store
	Locker  lock.Locker
	Clock   clock.Clock
	IDs     *snowflake.Node
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct turns the first validator failure into a ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return invalid(fieldPath(fe.Namespace()), describeTag(fe))
	}
	return invalid("request", err.Error())
}

// fieldPath drops the struct name from a validator namespace
// ("OrderRequest.items[0].name" -> "items[0].name").
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag()
}

// Money columns are decimal(14,2): amounts carry at most two decimal
// places and twelve integer digits.
const moneyPlaces = 2

var maxMoney = decimal.New(1, 12)

// checkAmount rejects amounts the ledger could not store exactly.
func checkAmount(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return invalid(field, "must be >= 0")
	case !d.Equal(d.Round(moneyPlaces)):
		return invalid(field, "must have at most 2 decimal places")
	case d.GreaterThanOrEqual(maxMoney):
		return invalid(field, "is too large")
	}
	return nil
}

// withLocks acquires keys in order and releases them in reverse.
func withLocks(ctx context.Context, l lock.Locker, keys []string, fn func() error) error {
	unlocks := make([]lock.Unlock, 0, len(keys))
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()
	for _, k := range keys {
		u, err := l.Lock(ctx, k)
		if err != nil {
			return err
		}
		unlocks = append(unlocks, u)
	}
	return fn()
}

// ParseID parses a snowflake id from a path or query value.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, invalid("id", "is not a valid id")
	}
	return id, nil
}
