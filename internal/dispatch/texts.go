package dispatch

import "fmt"

func handoverText(displayName string) string {
	return fmt.Sprintf(
		"Wait lang po %s, ia-alert ko na po ang aming admin para ma-assist kayo agad sa concern niyo.\n\n"+
			"Pasensya na po sa abala, stay tuned po! Ace Team will be with you shortly.",
		displayName,
	)
}

const resumeText = "Bumalik na po ako! 🙋‍♀️ Paano ko po kayo matutulungan ulit?"

func errorText(displayName string) string {
	return fmt.Sprintf("Sorry %s, may technical issue po kami. Please try again in a moment.", displayName)
}

func introText(displayName string, count int) string {
	return fmt.Sprintf("Hi %s!\nFound %d product(s) for you po:", displayName, count)
}

func priceText(name, price, availability, displayName string) string {
	if price == "" {
		price = "Contact us"
	}
	if availability == "" {
		availability = "In Stock"
	}
	return fmt.Sprintf("%s\n\nPrice: %s\nAvailability: %s\n\nInterested po kayo, %s? Just send us a message!",
		name, price, availability, displayName)
}

func notFoundText(displayName string) string {
	return fmt.Sprintf("Sorry %s, hindi ko po mahanap ang product na 'yan sa listahan namin.", displayName)
}

const shippingText = "Shipping info po: Nationwide delivery via J&T and LBC, 2-5 business days. " +
	"Free shipping po for orders ₱1,500 and up! 🚚"

const orderingText = "To order po: message niyo lang kami ng product name at size, " +
	"then we'll confirm availability and payment details (GCash, BPI, or COD). 🛒"
