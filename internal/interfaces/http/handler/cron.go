package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcrm "github.com/lifeos/backend/internal/application/crm"
	appplanner "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/domain/identity"
	"github.com/lifeos/backend/internal/infrastructure/logger"
	"github.com/lifeos/backend/internal/infrastructure/outbox"
)

// reminderWindow is how far ahead the reminder job looks for bookings
const reminderWindow = 24 * time.Hour

// CronHandler serves the endpoints the external scheduler calls. Each job
// iterates every user, a broken account never aborts the whole run.
type CronHandler struct {
	BaseHandler
	userRepo       identity.UserRepository
	stepService    *appplanner.StepService
	bookingService *appcrm.BookingService
	processor      *outbox.Processor
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(
	userRepo identity.UserRepository,
	stepService *appplanner.StepService,
	bookingService *appcrm.BookingService,
	processor *outbox.Processor,
) *CronHandler {
	return &CronHandler{
		userRepo:       userRepo,
		stepService:    stepService,
		bookingService: bookingService,
		processor:      processor,
	}
}

// ExpandSteps materializes due recurring step instances for every user
func (h *CronHandler) ExpandSteps(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	ids, err := h.userRepo.AllIDs(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	today := time.Now()
	created, failures := 0, 0
	for _, ownerID := range ids {
		result, err := h.stepService.ExpandAll(ctx, ownerID, today)
		if err != nil {
			failures++
			log.Warn("step expansion failed for user",
				zap.String("user_id", ownerID.String()),
				zap.Error(err))
			continue
		}
		created += result.InstancesCreated
		failures += len(result.Errors)
	}

	h.Success(c, gin.H{
		"users":             len(ids),
		"instances_created": created,
		"failures":          failures,
	})
}

// SendReminders queues reminder emails for bookings starting soon
func (h *CronHandler) SendReminders(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	ids, err := h.userRepo.AllIDs(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	queued, failures := 0, 0
	for _, ownerID := range ids {
		n, err := h.bookingService.QueueReminders(ctx, ownerID, reminderWindow)
		if err != nil {
			failures++
			log.Warn("reminder run failed for user",
				zap.String("user_id", ownerID.String()),
				zap.Error(err))
			continue
		}
		queued += n
	}

	h.Success(c, gin.H{
		"users":    len(ids),
		"queued":   queued,
		"failures": failures,
	})
}

// ProcessOutbox delivers one batch of pending outbox entries
func (h *CronHandler) ProcessOutbox(c *gin.Context) {
	processed, err := h.processor.ProcessBatch(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"processed": processed})
}

// RegisterRoutes registers the scheduler routes
func (h *CronHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cron := rg.Group("/cron")
	{
		cron.POST("/expand-steps", h.ExpandSteps)
		cron.POST("/send-reminders", h.SendReminders)
		cron.POST("/process-outbox", h.ProcessOutbox)
	}
}
