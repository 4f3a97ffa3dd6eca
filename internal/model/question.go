package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	QuestionTypeMCQ  = "mcq"
	QuestionTypeText = "text"

	DefaultExplanation = "No explanation provided."
)

// Question IDs are assigned by the normalizer before insert, never by a hook.
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Position      int            `gorm:"not null;default:0" json:"position"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	QuestionType  string         `gorm:"not null;default:'mcq'" json:"question_type"` // "mcq", "text"
	Options       datatypes.JSON `json:"options"`                                     // NULL unless mcq
	CorrectAnswer string         `gorm:"type:text" json:"correct_answer"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
}

// OptionList decodes Options; nil means unset.
func (q *Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}

// SetOptions stores options as a JSON list, or NULL for a nil slice.
func (q *Question) SetOptions(options []string) {
	if options == nil {
		q.Options = nil
		return
	}
	raw, _ := json.Marshal(options)
	q.Options = datatypes.JSON(raw)
}
