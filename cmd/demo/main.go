package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/apiclient"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/localstore"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/logging"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/workflow"
)

// A scripted walk through the booking flow against a running service:
// search, pick the first offer, submit passenger details, pay, print the
// confirmation and the pass, then reopen the confirmation by id the way a
// shared link would.
func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080/baggage-buddy", "service base URL")
		from      = flag.String("from", "Oslo, Norway", "departure city")
		to        = flag.String("to", "Frankfurt, Germany", "arrival city")
		weight    = flag.Int("weight", 15, "luggage weight tier in kg (0, 8, 15 or 23)")
		storePath = flag.String("store", "bookings.json", "local booking store file")
	)
	flag.Parse()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	local, err := localstore.OpenFileStore(*storePath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}

	provider := identity.NewSupabaseProvider(cfg.Identity)
	client := apiclient.New(*serverURL, cfg.Identity.AnonKey, provider)

	ctrl := workflow.NewController(client, client, client, local, logger,
		workflow.WithProcessingDelay(500*time.Millisecond))

	ctx := context.Background()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	if err := ctrl.Search(ctx, workflow.SearchQuery{
		FromCity:     *from,
		ToCity:       *to,
		FlightDate:   tomorrow,
		NumberOfBags: "1",
		LuggageSize:  "Medium",
	}); err != nil {
		log.Fatalf("search: %v", err)
	}

	offers := ctrl.Offers()
	fmt.Printf("found %d offer(s), demo=%v\n", len(offers), ctrl.IsDemo())
	for _, offer := range offers {
		fmt.Printf("  %s %s %s→%s $%.0f\n", offer.AirlineName, offer.FlightNumber, offer.Origin, offer.Destination, offer.Price)
	}

	if err := ctrl.SelectOffer(offers[0].ID); err != nil {
		log.Fatalf("select offer: %v", err)
	}

	if err := ctrl.SubmitDetails(workflow.PassengerDetails{
		FullName: "Demo Traveler",
		Email:    "demo@example.com",
		WeightKg: *weight,
	}); err != nil {
		log.Fatalf("submit details: %v", err)
	}

	var card *workflow.Card
	if ctrl.Price() > 0 {
		card = &workflow.Card{Number: "4242424242424242", Holder: "Demo Traveler", Expiry: "1230", CVV: "123"}
	}

	booking, err := ctrl.Pay(ctx, card)
	if err != nil {
		log.Fatalf("pay: %v", err)
	}
	fmt.Printf("booked: %s (tag %s), paid $%.0f via %s\n", booking.BookingID, booking.TagCode, booking.TotalPaid, booking.PaymentMethod)

	view, err := ctrl.PassView()
	if err != nil {
		log.Fatalf("render pass: %v", err)
	}
	fmt.Printf("pass: %s %s→%s, %d kg, stripe %s, %d tag bars\n",
		view.FlightNumber, view.OriginCode, view.DestinationCode, view.WeightKg, view.StripeColor, len(view.TagBarcode))

	// Reopen the confirmation the way ?page=confirmation&bookingId=… does.
	ctrl.GoHome()
	if ok := ctrl.OpenConfirmation(booking.BookingID); !ok {
		log.Fatalf("confirmation not found for %s", booking.BookingID)
	}
	fmt.Printf("confirmation reloaded from %s for %s\n", *storePath, ctrl.Confirmation().BookingID)

	ctrl.WaitForSync()
}
