package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/tasks"
)

// HandleContactNotify surfaces a new contact message to operators. The
// deployment has no outbound mail credentials, so notification is a
// structured log line that ops alerting picks up; the message itself stays
// reviewable in the admin area.
func HandleContactNotify(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseTaskPayload(t)
	if err != nil {
		return err
	}

	var msg models.ContactMessage
	if err := db.WithContext(ctx).Where("id = ?", payload.ContactID).First(&msg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Deleted before we got to it; nothing to notify about
			logger.Debug().Str("contact_id", payload.ContactID).Msg("Contact message gone, skipping notification")
			return nil
		}
		return fmt.Errorf("failed to load contact message: %w", err)
	}

	if msg.NotifiedAt != nil {
		logger.Debug().Str("contact_id", msg.ID).Msg("Contact message already notified")
		return nil
	}

	logger.Info().
		Str("contact_id", msg.ID).
		Str("from", msg.Email).
		Str("subject", msg.Subject).
		Msg("NEW CONTACT MESSAGE")

	now := time.Now()
	if err := db.WithContext(ctx).Model(&msg).Update("notified_at", &now).Error; err != nil {
		return fmt.Errorf("failed to mark contact message notified: %w", err)
	}

	return nil
}
