package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/TomGijsbers/evento-backend/pkg/api"
)

// seedLocations are the demo venues loaded into an empty database.
var seedLocations = []api.Location{
	{Name: "Gestolen Bakfiets Centrale", Address: "Stationsplein 14, Utrecht", Latitude: 52.089, Longitude: 5.110},
	{Name: "Foute Snorrenclub", Address: "Snorrenstraat 23, Gent", Latitude: 51.054, Longitude: 3.720},
	{Name: "Verdachte Frikandellenkraam", Address: "Marktplein 7, Rotterdam", Latitude: 51.922, Longitude: 4.481},
	{Name: "Koekjesdiefstal Museum", Address: "Speculooslaan 42, Hasselt", Latitude: 50.931, Longitude: 5.337},
	{Name: "Winkelcentrum Woensel", Address: "Woenselse Markt 7, Eindhoven", Latitude: 51.465, Longitude: 5.481},
	{Name: "Het Omgekeerde Fietsenhok", Address: "Kettingstraat 18, Amsterdam", Latitude: 52.376, Longitude: 4.904},
	{Name: "Illegale Stroopwafelbrouwerij", Address: "Siroopsteeg 9, Gouda", Latitude: 52.011, Longitude: 4.711},
	{Name: "Ondergrondse Hagelslag Bunker", Address: "Chocoladeweg 77, Breda", Latitude: 51.585, Longitude: 4.775},
	{Name: "Nachtelijke Kaasrollersbaan", Address: "Edammer Helling 34, Alkmaar", Latitude: 52.631, Longitude: 4.751},
	{Name: "Het Gefluister Café", Address: "Stiltelaan 3, Maastricht", Latitude: 50.848, Longitude: 5.690},
	{Name: "De Bizarre Kapsalon", Address: "Schaarweg 66, Den Haag", Latitude: 52.077, Longitude: 4.313},
	{Name: "Verdwijnende Parapluwinkel", Address: "Regenstraat 101, Groningen", Latitude: 53.219, Longitude: 6.568},
}

// seedEvents are demo events spread across past and future dates so a
// fresh install shows a realistic mix. DaysOut is relative to seeding
// time; LocationIdx indexes into seedLocations.
var seedEvents = []struct {
	Name        string
	Description string
	LocationIdx int
	DaysOut     int
}{
	{"Middernachtelijke Fietsenroof", "Samen gezellig fietsen stelen onder het maanlicht. Verkleed je in het zwart en neem je eigen kniptang mee. Winnaar is wie de duurste fiets bemachtigt.", 0, 7},
	{"Workshop Snorrenvermomming", "Leer hoe je onherkenbaar wordt met een perfecte snor. Diverse stijlen komen aan bod: de Poirot, de Handlebar en de beruchte Walrus.", 1, 14},
	{"Verdachte Worsten BBQ", "Frikandellen eten van dubieuze herkomst. Niemand weet wat erin zit, maar het smaakt verrassend goed!", 2, 21},
	{"Koekjesroof Speurtocht", "Vind de geheime stash speculaas. Aanwijzingen zijn verstopt in de hele stad. Breng je eigen zak mee om je buit in te verzamelen.", 3, 30},
	{"Mysterieus winkelmandje vullen", "Wie vult het meest bizarre winkelmandje? De jury beoordeelt op creativiteit, shock-factor en absurditeit.", 4, 60},
	{"Omgekeerde Fietsrace", "Fiets zo langzaam mogelijk zonder om te vallen. Laatste over de finish wint. Strikte regels tegen stilstaan!", 5, -14},
	{"Stiekeme Stroopwafel Expeditie", "Infiltreer de stroopwafelfabriek en ontdek het geheime recept. Kom verkleed als meelzak om niet op te vallen.", 6, 5},
	{"Hagelslag Proeverij XL", "Blind-tasting van 42 soorten hagelslag. Kun jij de melkchocolade van de pure onderscheiden met een blinddoek om?", 7, -5},
	{"Nachtelijke Kaasrol Marathon", "Een hele nacht kazen van de helling rollen. Helm verplicht! Winnaar krijgt een gouden kaasschaaf.", 8, 18},
	{"Fluisterfeest", "Een hele avond feesten waarbij alleen gefluisterd mag worden. Schreeuwen = onmiddellijk verwijderd worden!", 9, -20},
	{"Gekke Kapseldag", "Laat je haar transformeren tot een kunstwerk. Wie het meest bizarre kapsel durft te dragen, wint een jaar gratis haarproducten.", 10, 10},
	{"Paraplu Verstoppertje", "Verstop je paraplu ergens in de stad. Wie de meeste paraplu's van anderen vindt, is winnaar. Let op: paraplu's moeten aan het eind geretourneerd worden!", 11, 3},
	{"Nep-Buitenaards Bezoek Organiseren", "Help mee met het creëren van een nep UFO-landing. Inclusief workshop aluminiumhoedjes vouwen.", 5, 25},
	{"Onderwater Schaaktoernooi", "Schaak terwijl je in het zwembad bent. Waterdichte schaakstukken worden voorzien. Zuurstoftank zelf meenemen.", 3, 30},
	{"Geheimschrift Ontcijferen", "Kraak de code en vind de verborgen schat. Voorkennis van hiërogliefen is een pre maar geen vereiste.", 8, -30},
}

// Seed loads the demo dataset. It is a no-op when any location already
// exists, so repeated startups with seeding enabled stay idempotent.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	locationIDs := make([]int64, len(seedLocations))
	for i := range seedLocations {
		loc := seedLocations[i]
		if err := s.CreateLocation(ctx, &loc); err != nil {
			return fmt.Errorf("failed to seed location %q: %w", loc.Name, err)
		}
		locationIDs[i] = loc.ID
	}

	now := time.Now().UTC()
	for _, e := range seedEvents {
		event := &api.Event{
			Name:        e.Name,
			Description: e.Description,
			EventDate:   now.AddDate(0, 0, e.DaysOut),
			LocationID:  locationIDs[e.LocationIdx],
		}
		if err := s.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", e.Name, err)
		}
	}
	return nil
}
