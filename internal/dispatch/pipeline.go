package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/conversation"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/genai"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/messenger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/sentry"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/store"
)

// Pipeline routes one inbound event to a response strategy: catalog
// carousel, scripted handover, suppression, or generative fallback.
type Pipeline struct {
	store    *store.SharedStore
	machine  *conversation.Machine
	profiles ProfileLookup
	sender   MessageSender
	fallback GenerativeFallback
	notifier AdminNotifier
	log      *logger.Logger
	metrics  *metrics.Metrics
	botCfg   config.BotConfig
}

// New creates a dispatch pipeline. fallback and notifier may be nil when
// the corresponding collaborator is not configured; the pipeline then
// degrades to canned replies and log-only handover alerts.
func New(
	st *store.SharedStore,
	machine *conversation.Machine,
	profiles ProfileLookup,
	sender MessageSender,
	fallback GenerativeFallback,
	notifier AdminNotifier,
	log *logger.Logger,
	m *metrics.Metrics,
	botCfg config.BotConfig,
) *Pipeline {
	return &Pipeline{
		store:    st,
		machine:  machine,
		profiles: profiles,
		sender:   sender,
		fallback: fallback,
		notifier: notifier,
		log:      log.WithModule("dispatch"),
		metrics:  m,
		botCfg:   botCfg,
	}
}

// HandleMessage processes one inbound text message. Redeliveries are
// dropped by the dedup window; everything else produces exactly one
// reply unless the conversation is suppressed.
func (p *Pipeline) HandleMessage(ctx context.Context, senderID, messageText, messageID string) {
	log := p.log.WithField("sender_id", senderID)

	if p.store.WasSeen(messageID) {
		p.metrics.RecordDuplicateDrop()
		log.WithField("message_id", messageID).Debug("Duplicate message dropped")
		return
	}

	p.sender.SendTypingIndicator(ctx, senderID, true)
	defer p.sender.SendTypingIndicator(ctx, senderID, false)

	profile := p.lookupProfile(ctx, senderID)
	displayName := profile.DisplayName()

	// The pipeline boundary: any failure past this point becomes a
	// single generic apology, never a crash or silence.
	err := p.run(ctx, senderID, messageText, profile)
	if err != nil {
		log.WithError(err).Error("Pipeline failed, sending generic apology")
		sentry.CaptureExceptionForSender(senderID, err)
		p.sendText(ctx, senderID, errorText(displayName))
	}
}

func (p *Pipeline) run(ctx context.Context, senderID, messageText string, profile messenger.Profile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	displayName := profile.DisplayName()
	log := p.log.WithField("sender_id", senderID)

	// Get + transition + set is atomic for this user; concurrent
	// deliveries cannot both win a handover.
	var decision conversation.Decision
	p.store.UpdateContext(senderID, func(current conversation.Context) conversation.Context {
		decision = p.machine.Evaluate(messageText, current, time.Now())
		return decision.Next
	})

	switch decision.Action {
	case conversation.ActionResume:
		p.metrics.RecordResume()
		p.metrics.RecordOutcome("resumed")
		log.Info("Conversation resumed by user")
		return p.sendText(ctx, senderID, resumeText)

	case conversation.ActionSuppress:
		p.metrics.RecordOutcome("suppressed")
		log.Debug("Suppressed, admin owns the conversation")
		return nil

	case conversation.ActionHandover:
		p.handover(ctx, senderID, messageText, profile)
		return p.sendText(ctx, senderID, handoverText(displayName))
	}

	matches := catalog.Match(messageText, p.store.SnapshotCatalog())
	if limit := p.botCfg.MaxCarouselItems; limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if len(matches) > 0 {
		p.metrics.RecordOutcome("carousel")
		log.WithField("matches", len(matches)).Info("Catalog matches found")

		if err := p.sendText(ctx, senderID, introText(displayName, len(matches))); err != nil {
			return err
		}
		return p.sendTemplate(ctx, senderID, messenger.BuildCarousel(matches))
	}

	return p.sendText(ctx, senderID, p.completeFallback(ctx, messageText, displayName))
}

// completeFallback asks the generative provider for a reply, degrading
// to the canned apology. Fallback failure never reaches the transport.
func (p *Pipeline) completeFallback(ctx context.Context, messageText, displayName string) string {
	if p.fallback == nil {
		p.metrics.RecordOutcome("apology")
		return genai.Apology(p.botCfg.AssistantName, displayName)
	}

	ctx, cancel := context.WithTimeout(ctx, config.FallbackCompletion)
	defer cancel()

	text, err := p.fallback.Complete(ctx, messageText, displayName)
	if err != nil {
		p.metrics.RecordOutcome("apology")
		p.log.WithError(err).Warn("Generative fallback failed, using canned apology")
		return genai.Apology(p.botCfg.AssistantName, displayName)
	}

	p.metrics.RecordOutcome("fallback")
	return text
}

// handover fires the admin alert. Best-effort: a failed alert is logged
// and the user still gets the scripted acknowledgement.
func (p *Pipeline) handover(ctx context.Context, senderID, messageText string, profile messenger.Profile) {
	p.metrics.RecordHandover()
	p.metrics.RecordOutcome("handover")
	p.log.WithField("sender_id", senderID).Info("Handover triggered, alerting admin")

	if p.notifier == nil {
		p.log.Warn("No admin notifier configured, handover alert skipped")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, config.AdminAlert)
	defer cancel()

	if err := p.notifier.Notify(ctx, senderID, messageText, profile.FirstName, profile.LastName); err != nil {
		p.metrics.RecordCollaboratorError("mailer")
		p.log.WithError(err).Error("Admin notification failed")
	}
}

// lookupProfile fetches display data, substituting the generic fallback
// on any failure.
func (p *Pipeline) lookupProfile(ctx context.Context, senderID string) messenger.Profile {
	if p.profiles == nil {
		return messenger.Profile{}
	}

	profile, err := p.profiles.Fetch(ctx, senderID)
	if err != nil {
		p.log.WithField("sender_id", senderID).WithError(err).Warn("Profile lookup failed, using generic name")
		return messenger.Profile{}
	}
	return profile
}

func (p *Pipeline) sendText(ctx context.Context, senderID, text string) error {
	if err := p.sender.SendText(ctx, senderID, text); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}

func (p *Pipeline) sendTemplate(ctx context.Context, senderID string, template map[string]any) error {
	if err := p.sender.SendTemplate(ctx, senderID, template); err != nil {
		return fmt.Errorf("sending carousel: %w", err)
	}
	return nil
}
