package models

import (
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

// QuestionCollection groups questions asked of the user.
type QuestionCollection struct {
	Name             opt.Value[string]
	Weight           opt.Value[int]
	Icon             opt.Value[string]
	Desc             opt.Value[string]
	Media            opt.Value[string]
	MediaContentType opt.Value[string]
	GeneralPublic    opt.Value[enum.TriState]
}

// QuestionCollectionTable is the field table of QuestionCollection.
var QuestionCollectionTable = model.NewTable[QuestionCollection]("questionCollection",
	model.String("name", func(q *QuestionCollection) *opt.Value[string] { return &q.Name }).Identity(),
	model.Int("weight", func(q *QuestionCollection) *opt.Value[int] { return &q.Weight }),
	model.String("icon", func(q *QuestionCollection) *opt.Value[string] { return &q.Icon }),
	model.String("desc", func(q *QuestionCollection) *opt.Value[string] { return &q.Desc }),
	model.String("media", func(q *QuestionCollection) *opt.Value[string] { return &q.Media }),
	model.String("mediaContentType", func(q *QuestionCollection) *opt.Value[string] { return &q.MediaContentType }),
	model.TriState("generalPublic", func(q *QuestionCollection) *opt.Value[enum.TriState] { return &q.GeneralPublic }),
)

// QuestionCollectionKey returns the collection key of a question collection.
func QuestionCollectionKey(q *QuestionCollection) string { return q.Name.Or("") }
