package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MarketConfig is the complete configuration surface of a pricing market,
// loadable from YAML. Pointer fields distinguish an explicit zero (alpha: 0 is
// zero elasticity) from "not set" (take the default).
type MarketConfig struct {
	PriceLattice        []float64 `yaml:"price_lattice" default:"[3.0,3.5,4.0,4.5,5.0]" validate:"min=1,increasing,dive,gte=0,finite"`
	BaselinePrice       *float64  `yaml:"baseline_price" default:"3.0" validate:"required,finite"`
	BaselineDemand      *float64  `yaml:"baseline_demand" default:"1000" validate:"required,gte=0,finite"`
	Alpha               *float64  `yaml:"alpha" default:"0.2" validate:"required,finite"`
	Beta                *float64  `yaml:"beta" default:"1.5" validate:"required,gte=0"`
	NumAgents           *int      `yaml:"num_agents" default:"3" validate:"required,gte=1"`
	NormalizationPolicy string    `yaml:"normalization_policy" default:"min-max" validate:"oneof=min-max raw population-relative rank-based"`
	BaselineDecay       *float64  `yaml:"baseline_decay" default:"0.1" validate:"required,gt=0,lte=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	_ = v.RegisterValidation("increasing", func(fl validator.FieldLevel) bool {
		s := fl.Field()
		for i := 1; i < s.Len(); i++ {
			if s.Index(i).Float() <= s.Index(i-1).Float() {
				return false
			}
		}
		return true
	})
	return v
}

// DefaultMarketConfig returns the reference market: five prices from 3.00 to
// 5.00, baseline 3.00 at 1000 units, alpha=0.2, beta=1.5, three shops, min-max.
func DefaultMarketConfig() *MarketConfig {
	cfg := &MarketConfig{}
	defaults.MustSet(cfg)
	return cfg
}

// LoadMarketConfig reads a YAML market configuration, fills unset fields with
// defaults and validates the result.
func LoadMarketConfig(path string) (*MarketConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading market config: %w", err)
	}
	return ParseMarketConfig(data)
}

// ParseMarketConfig decodes YAML with strict field checking; unknown keys are errors.
func ParseMarketConfig(data []byte) (*MarketConfig, error) {
	var cfg MarketConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing market config: %v", ErrConfig, err)
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("%w: applying defaults: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and the lattice ordering. Violations wrap ErrConfig.
func (c *MarketConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrConfig, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "increasing":
		return fmt.Sprintf("%s must be strictly increasing", field)
	case "finite":
		return fmt.Sprintf("%s must be finite", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// NewLattice builds the price lattice described by the config.
func (c *MarketConfig) NewLattice() (*PriceLattice, error) {
	if c.BaselinePrice == nil || c.BaselineDemand == nil {
		return nil, fmt.Errorf("%w: baseline price and demand must be set", ErrConfig)
	}
	return NewPriceLattice(c.PriceLattice, *c.BaselinePrice, *c.BaselineDemand)
}

// Agents returns the configured number of shops, or 0 when unset.
func (c *MarketConfig) Agents() int {
	if c.NumAgents == nil {
		return 0
	}
	return *c.NumAgents
}

// NewEnvironment validates the config and wires lattice, exponential demand,
// logit allocator, revenue engine and the configured normalizer.
func (c *MarketConfig) NewEnvironment(observers ...StepObserver) (*Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lattice, err := c.NewLattice()
	if err != nil {
		return nil, err
	}
	normalizer, err := NewRewardNormalizer(NormalizationPolicy(c.NormalizationPolicy), NormalizerOptions{
		BaselineDecay:    *c.BaselineDecay,
		ReferenceRevenue: lattice.BaselinePrice() * lattice.BaselineDemand(),
	})
	if err != nil {
		return nil, err
	}
	engine := NewRevenueEngine(lattice, NewExponentialDemand(lattice), NewLogitAllocator(lattice))
	return NewEnvironment(engine, *c.Alpha, *c.Beta, normalizer, observers...), nil
}
