package models

import (
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

// ParameterCategory is the input widget a rule parameter is edited with.
type ParameterCategory int

const (
	ParameterDevice ParameterCategory = iota
	ParameterLocation
	ParameterTime
	ParameterTimeRange
	ParameterDayOfWeek
	ParameterNumber
	ParameterText
	ParameterSelection
	ParameterEmail
	ParameterPhone
	ParameterDuration
	ParameterMode
	ParameterTemperature
	ParameterPercent
	ParameterUnrecognized
)

// ParameterCategories maps rule parameter category codes.
var ParameterCategories = enum.NewTable("parameter category", ParameterUnrecognized,
	enum.Entry[ParameterCategory]{Variant: ParameterDevice, Code: 1, Names: []string{"device"}},
	enum.Entry[ParameterCategory]{Variant: ParameterLocation, Code: 2, Names: []string{"location"}},
	enum.Entry[ParameterCategory]{Variant: ParameterTime, Code: 4, Names: []string{"time"}},
	enum.Entry[ParameterCategory]{Variant: ParameterTimeRange, Code: 5, Names: []string{"timeRange"}},
	enum.Entry[ParameterCategory]{Variant: ParameterDayOfWeek, Code: 6, Names: []string{"dayOfWeek"}},
	enum.Entry[ParameterCategory]{Variant: ParameterNumber, Code: 7, Names: []string{"number"}},
	enum.Entry[ParameterCategory]{Variant: ParameterText, Code: 8, Names: []string{"text"}},
	enum.Entry[ParameterCategory]{Variant: ParameterSelection, Code: 9, Names: []string{"selection"}},
	enum.Entry[ParameterCategory]{Variant: ParameterEmail, Code: 10, Names: []string{"email"}},
	enum.Entry[ParameterCategory]{Variant: ParameterPhone, Code: 11, Names: []string{"phone"}},
	enum.Entry[ParameterCategory]{Variant: ParameterDuration, Code: 12, Names: []string{"duration"}},
	enum.Entry[ParameterCategory]{Variant: ParameterMode, Code: 13, Names: []string{"mode"}},
	enum.Entry[ParameterCategory]{Variant: ParameterTemperature, Code: 14, Names: []string{"temperature"}},
	enum.Entry[ParameterCategory]{Variant: ParameterPercent, Code: 15, Names: []string{"percent"}},
)

// ValueType is the numeric type of a rule parameter value.
type ValueType int

const (
	ValueInt ValueType = iota
	ValueFloat
	ValueUnrecognized
)

// ValueTypes maps value type codes.
var ValueTypes = enum.NewTable("value type", ValueUnrecognized,
	enum.Entry[ValueType]{Variant: ValueInt, Code: 1, Names: []string{"int"}},
	enum.Entry[ValueType]{Variant: ValueFloat, Code: 2, Names: []string{"float"}},
)

// ParameterValue is one selectable value of a rule parameter.
type ParameterValue struct {
	ID   opt.Value[string]
	Name opt.Value[string]
}

// RuleComponentParameter is an input of a rule trigger, state or action.
type RuleComponentParameter struct {
	Name         opt.Value[string]
	Category     opt.Value[ParameterCategory]
	Optional     opt.Value[enum.TriState]
	Desc         opt.Value[string]
	Values       opt.Value[[]*ParameterValue]
	SelectorName opt.Value[string]
	Value        *ParameterValue
	MinValue     opt.Value[float64]
	MaxValue     opt.Value[float64]
	ValueType    opt.Value[ValueType]
	Unit         opt.Value[string]
}

// InRange reports whether v lies within the parameter bounds. Unset bounds
// are open.
func (p *RuleComponentParameter) InRange(v float64) bool {
	if lo, ok := p.MinValue.Get(); ok && v < lo {
		return false
	}
	if hi, ok := p.MaxValue.Get(); ok && v > hi {
		return false
	}
	return true
}

// ParameterValueTable is the field table of ParameterValue.
var ParameterValueTable = model.NewTable[ParameterValue]("parameterValue",
	model.String("id", func(v *ParameterValue) *opt.Value[string] { return &v.ID }).Identity(),
	model.String("name", func(v *ParameterValue) *opt.Value[string] { return &v.Name }),
)

// RuleComponentParameterTable is the field table of RuleComponentParameter.
var RuleComponentParameterTable = model.NewTable[RuleComponentParameter]("ruleComponentParameter",
	model.String("name", func(p *RuleComponentParameter) *opt.Value[string] { return &p.Name }).Identity(),
	model.Enum("category", func(p *RuleComponentParameter) *opt.Value[ParameterCategory] { return &p.Category }, ParameterCategories),
	model.TriState("optional", func(p *RuleComponentParameter) *opt.Value[enum.TriState] { return &p.Optional }),
	model.String("desc", func(p *RuleComponentParameter) *opt.Value[string] { return &p.Desc }),
	model.Records("values", func(p *RuleComponentParameter) *opt.Value[[]*ParameterValue] { return &p.Values }, ParameterValueTable),
	model.String("selectorName", func(p *RuleComponentParameter) *opt.Value[string] { return &p.SelectorName }),
	model.Record("value", func(p *RuleComponentParameter) **ParameterValue { return &p.Value }, ParameterValueTable),
	model.Float("minValue", func(p *RuleComponentParameter) *opt.Value[float64] { return &p.MinValue }),
	model.Float("maxValue", func(p *RuleComponentParameter) *opt.Value[float64] { return &p.MaxValue }),
	model.Enum("valueType", func(p *RuleComponentParameter) *opt.Value[ValueType] { return &p.ValueType }, ValueTypes),
	model.String("unit", func(p *RuleComponentParameter) *opt.Value[string] { return &p.Unit }),
)

// RuleComponentParameterKey returns the collection key of a parameter.
func RuleComponentParameterKey(p *RuleComponentParameter) string { return p.Name.Or("") }
