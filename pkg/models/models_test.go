package models_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/peoplepower/ppsync-go/pkg/bag"
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/models"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/session"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

type scenario struct {
	Name       string `yaml:"name"`
	Collection string `yaml:"collection"`
	Steps      []step `yaml:"steps"`
}

type step struct {
	Payload map[string]any `yaml:"payload"`
	Created bool           `yaml:"created"`
	Changes []string       `yaml:"changes"`
	Issues  []string       `yaml:"issues"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios.yaml"))
	require.NoError(t, err)
	var f scenarioFile
	require.NoError(t, yaml.Unmarshal(data, &f))
	require.NotEmpty(t, f.Scenarios)
	return f.Scenarios
}

func issuePaths(err error) []string {
	var de *model.DecodeError
	if !errors.As(err, &de) {
		return nil
	}
	out := make([]string, len(de.Issues))
	for i, issue := range de.Issues {
		out[i] = issue.Path
	}
	return out
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			s := session.New()
			models.Register(s)
			a, err := s.Collection(sc.Collection)
			require.NoError(t, err)

			for i, st := range sc.Steps {
				out, err := a.ApplyPayload(wire.Payload(st.Payload))
				require.NoError(t, err, "step %d", i)
				assert.Equal(t, st.Created, out.Created, "step %d created", i)
				if len(st.Changes) == 0 {
					assert.Empty(t, out.Changes, "step %d changes", i)
				} else {
					assert.Equal(t, st.Changes, out.Changes, "step %d changes", i)
				}
				if len(st.Issues) == 0 {
					assert.NoError(t, out.Issues, "step %d issues", i)
				} else {
					assert.Equal(t, st.Issues, issuePaths(out.Issues), "step %d issues", i)
				}
			}
		})
	}
}

func TestPlansFromJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "plans.json"))
	require.NoError(t, err)
	payloads, err := wire.Decode(data)
	require.NoError(t, err)
	require.Len(t, payloads, 2)

	s := session.New()
	c := models.Register(s)
	res := c.Plans.ApplyBatch(payloads)
	require.NoError(t, res.Err())
	require.Equal(t, 2, c.Plans.Len())

	pro, err := c.Plans.Get(20)
	require.NoError(t, err)
	assert.Equal(t, opt.Some(models.PlanStatusInitial), pro.Status)
	assert.Equal(t, opt.Some([]int{21, 22}), pro.UpgradableTo)

	prices, ok := pro.Prices.Get()
	require.True(t, ok)
	require.Len(t, prices, 1)
	price := prices[0]
	assert.Equal(t, opt.Some(models.SubscriptionMonthly), price.Type)
	assert.Equal(t, opt.Some(models.PaymentAppleInApp), price.PaymentType)
	assert.Equal(t, opt.Some(enum.TriStateFalse), price.Free)
	assert.Equal(t, "$9.99 USD", price.Amount.String())

	annual, err := c.Plans.Get(21)
	require.NoError(t, err)
	subs, ok := annual.Subscriptions.Get()
	require.True(t, ok)
	require.Len(t, subs, 1)
	sub := subs[0]
	assert.Equal(t, opt.Some(int64(12345678901)), sub.OrganizationID)
	assert.True(t, sub.Active(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sub.Active(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sub.Active(time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)))

	plan, ok := c.SubscriptionPlan(sub)
	require.True(t, ok)
	assert.Same(t, annual, plan)

	c.Plans.Evict(21)
	_, ok = c.SubscriptionPlan(sub)
	assert.False(t, ok, "evicted plans do not resolve")
}

func TestPlanStatusCodes(t *testing.T) {
	c := models.Register(session.New())
	for code, want := range map[int]models.PlanStatus{
		-2: models.PlanStatusNone,
		-1: models.PlanStatusInitial,
		0:  models.PlanStatusActive,
		1:  models.PlanStatusExpiredOrCanceled,
	} {
		res, err := c.Plans.Apply(wire.Payload{"planId": 30 + code, "status": code})
		require.NoError(t, err)
		assert.NoError(t, res.Issues, "status %d", code)
		assert.Equal(t, opt.Some(want), res.Record.Status, "status %d", code)
		assert.Equal(t, code, models.ServicePlanTable.Encode(res.Record)["status"])
	}
	assert.Equal(t, "none", models.PlanStatusNone.String())
}

func TestPriceAmountString(t *testing.T) {
	var empty *models.PriceAmount
	assert.Equal(t, "", empty.String())

	a := &models.PriceAmount{Value: opt.Some(decimal.RequireFromString("12.5"))}
	assert.Equal(t, "12.50", a.String())
}

func TestDeviceGoal(t *testing.T) {
	s := session.New()
	c := models.Register(s)

	_, err := c.Goals.Apply(wire.Payload{"id": 4, "name": "Stay safe", "categories": 2})
	require.NoError(t, err)
	res, err := c.Devices.Apply(wire.Payload{"locationId": 1, "id": "cam", "goalId": 4, "availableBytes": "2048"})
	require.NoError(t, err)
	assert.Equal(t, models.DeviceKey{LocationID: 1, DeviceID: "cam"}, res.ID)
	assert.Equal(t, "1/cam", res.ID.String())
	assert.Equal(t, opt.Some(int64(2048)), res.Record.AvailableBytes)
	assert.False(t, res.Record.Online())

	goal, ok := c.DeviceGoal(res.Record)
	require.True(t, ok)
	assert.True(t, goal.Has(models.GoalSecurity))
	assert.False(t, goal.Has(models.GoalEnergy))
}

func TestMediaDescription(t *testing.T) {
	m := &models.DeviceTypeMedia{}
	_, ok := m.Description(language.English)
	assert.False(t, ok)

	m.Desc = bag.New("en", "Front view", "fr", "Vue de face")
	d, ok := m.Description(language.French)
	require.True(t, ok)
	assert.Equal(t, "Vue de face", d)
}

func TestNotificationRender(t *testing.T) {
	s := session.New()
	c := models.Register(s)

	res, err := c.Notifications.Apply(wire.Payload{
		"id":   int64(77),
		"type": 2,
		"message": map[string]any{
			"template": "welcome",
			"content":  "Hi {{name}}, see {{template}} {{missing}}",
			"model":    map[string]any{"name": "Ann"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Record.Message)
	assert.Equal(t, "Hi Ann, see welcome {{missing}}", res.Record.Message.Render())

	_, err = c.Notifications.Patch(77, wire.Payload{"message": map[string]any{"model": map[string]any{"name": "Bo"}}})
	require.NoError(t, err)
	assert.Equal(t, "Hi Bo, see welcome {{missing}}", res.Record.Message.Render())
}

func TestRuleParameterRange(t *testing.T) {
	s := session.New()
	c := models.Register(s)

	res, err := c.Parameters.Apply(wire.Payload{
		"name":      "threshold",
		"category":  14,
		"minValue":  10.5,
		"valueType": 2,
		"values":    []any{map[string]any{"id": "a", "name": "A"}},
		"value":     map[string]any{"id": "a"},
	})
	require.NoError(t, err)
	p := res.Record
	assert.Equal(t, opt.Some(models.ParameterTemperature), p.Category)
	assert.Equal(t, opt.Some(models.ValueFloat), p.ValueType)
	assert.False(t, p.InRange(3))
	assert.True(t, p.InRange(1000), "no upper bound")
	require.NotNil(t, p.Value)
	assert.Equal(t, opt.Some("a"), p.Value.ID)
}

func TestCatalog(t *testing.T) {
	names := models.Names()
	assert.Len(t, names, 8)
	assert.IsIncreasing(t, names)

	s, ok := models.Schema(models.ServicePlans)
	require.True(t, ok)
	assert.Equal(t, "servicePlan", s.Name)
	require.NotEmpty(t, s.Fields)
	assert.Equal(t, "planId", s.Fields[0].Key)
	assert.True(t, s.Fields[0].Identity)

	_, ok = models.Schema("nope")
	assert.False(t, ok)
}

func TestRegisterTwicePanics(t *testing.T) {
	s := session.New()
	models.Register(s)
	assert.Panics(t, func() { models.Register(s) })
	assert.Len(t, s.Collections(), 8)
}
