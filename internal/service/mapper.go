package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/rs/zerolog/log"
)

func toQuestionResponses(questions []model.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		var resp dto.QuestionResponse
		if err := copier.Copy(&resp, &questions[i]); err != nil {
			log.Warn().Err(err).Str("questionID", questions[i].ID.String()).Msg("Failed to map question")
		}
		resp.OptionList = questions[i].OptionList()
		out = append(out, resp)
	}
	return out
}

func toFileResponses(docs []model.SourceDocument) []dto.FileResponse {
	out := make([]dto.FileResponse, 0, len(docs))
	if err := copier.Copy(&out, &docs); err != nil {
		log.Warn().Err(err).Msg("Failed to map files")
	}
	return out
}

func toAttemptSummaries(attempts []model.QuizAttempt) []dto.AttemptSummary {
	out := make([]dto.AttemptSummary, 0, len(attempts))
	if err := copier.Copy(&out, &attempts); err != nil {
		log.Warn().Err(err).Msg("Failed to map attempts")
	}
	return out
}
