package dispatch

import (
	"context"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/messenger"
)

// HandlePostback processes a button click. The payload is decoded at the
// boundary; undecodable or unknown actions are logged and produce no
// reply, which is safer than guessing.
func (p *Pipeline) HandlePostback(ctx context.Context, senderID, rawPayload string) {
	log := p.log.WithField("sender_id", senderID)

	payload, err := messenger.ParsePostbackPayload(rawPayload)
	if err != nil {
		log.WithError(err).Warn("Undecodable postback payload")
		return
	}

	profile := p.lookupProfile(ctx, senderID)
	displayName := profile.DisplayName()

	switch payload.Action {
	case messenger.ActionViewPrice:
		p.viewPrice(ctx, senderID, payload.ProductID, displayName)

	case messenger.ActionShippingInfo:
		p.sendText(ctx, senderID, shippingText)

	case messenger.ActionOrderingInfo:
		p.sendText(ctx, senderID, orderingText)

	default:
		log.WithField("action", payload.Action).Warn("Unknown postback action")
	}
}

// viewPrice replies with price and availability for a carousel card,
// looked up against the current catalog snapshot.
func (p *Pipeline) viewPrice(ctx context.Context, senderID, productID, displayName string) {
	product, ok := catalog.FindByID(productID, p.store.SnapshotCatalog())
	if !ok {
		p.log.WithFields(map[string]any{
			"sender_id":  senderID,
			"product_id": productID,
		}).Info("Postback for unknown product")
		p.sendText(ctx, senderID, notFoundText(displayName))
		return
	}

	p.sendText(ctx, senderID, priceText(product.Name, product.Price, product.Availability, displayName))
}
