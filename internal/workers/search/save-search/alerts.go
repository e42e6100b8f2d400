package savesearch

import (
	"context"
	"encoding/json"
	"fmt"

	awsclients "recruit-workers/internal/common/aws"
	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
)

const alertSubscribedEvent = "saved_search.alert_subscribed"

// AlertNotifier announces a new alert subscription on a saved search.
type AlertNotifier interface {
	AlertSubscribed(ctx context.Context, saved models.SavedSearch, profile *models.Profile) error
}

// AWSAlertNotifier publishes the subscription to SNS and emails a
// confirmation through SES. Either client may be nil to disable it.
type AWSAlertNotifier struct {
	sns       awsclients.SNSService
	ses       awsclients.SESService
	topicARN  string
	fromEmail string
	logger    logger.Logger
}

func NewAWSAlertNotifier(sns awsclients.SNSService, ses awsclients.SESService, topicARN, fromEmail string, log logger.Logger) *AWSAlertNotifier {
	return &AWSAlertNotifier{
		sns:       sns,
		ses:       ses,
		topicARN:  topicARN,
		fromEmail: fromEmail,
		logger:    log,
	}
}

type alertEvent struct {
	SavedSearchID  string               `json:"savedSearchId"`
	UserID         string               `json:"userId"`
	Name           string               `json:"name"`
	Query          string               `json:"query"`
	Filters        models.SearchFilters `json:"filters"`
	AlertFrequency string               `json:"alertFrequency"`
}

func (n *AWSAlertNotifier) AlertSubscribed(ctx context.Context, saved models.SavedSearch, profile *models.Profile) error {
	frequency := ""
	if saved.AlertFrequency != nil {
		frequency = *saved.AlertFrequency
	}

	if n.sns != nil && n.topicARN != "" {
		payload, err := json.Marshal(alertEvent{
			SavedSearchID:  saved.ID,
			UserID:         saved.UserID,
			Name:           saved.Name,
			Query:          saved.Query,
			Filters:        saved.Filters,
			AlertFrequency: frequency,
		})
		if err != nil {
			return apperrors.NewNotificationFailedError("sns", err)
		}
		if _, err := n.sns.Publish(ctx, awsclients.TopicMessage(n.topicARN, alertSubscribedEvent, string(payload))); err != nil {
			return apperrors.NewNotificationFailedError("sns", err)
		}
	}

	if n.ses != nil && n.fromEmail != "" && profile != nil && profile.Email != "" {
		subject := fmt.Sprintf("Alerts enabled for \"%s\"", saved.Name)
		body := fmt.Sprintf("Hi %s,\n\nYou will receive %s alerts for new results matching \"%s\".\n",
			profile.FirstName, frequency, saved.Query)
		if _, err := n.ses.SendEmail(ctx, awsclients.TextEmail(n.fromEmail, profile.Email, subject, body)); err != nil {
			return apperrors.NewNotificationFailedError("ses", err)
		}
	}
	return nil
}
