package persistence

import (
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

type thing struct {
	ID   opt.Value[string]
	Name opt.Value[string]
}

var thingTable = model.NewTable[thing]("thing",
	model.String("id", func(t *thing) *opt.Value[string] { return &t.ID }).Identity(),
	model.String("name", func(t *thing) *opt.Value[string] { return &t.Name }),
)
