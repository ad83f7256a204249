package memory

import (
	"github.com/riskibarqy/trip-recommender/internal/domain/league"
	"github.com/riskibarqy/trip-recommender/internal/domain/team"
	"github.com/riskibarqy/trip-recommender/internal/domain/trip"
	"github.com/riskibarqy/trip-recommender/internal/domain/user"
	"github.com/riskibarqy/trip-recommender/internal/domain/venue"
	"github.com/riskibarqy/trip-recommender/internal/platform/geo"
)

// League ids follow the API-Football catalog.
const (
	LeagueIDPremierLeague = "39"
	LeagueIDChampionship  = "40"
	LeagueIDLigue1        = "61"
	LeagueIDLigue2        = "62"
	LeagueIDBundesliga    = "78"
	LeagueIDBundesliga2   = "79"
	LeagueIDEredivisie    = "88"
	LeagueIDPrimeiraLiga  = "94"
	LeagueIDSerieA        = "135"
	LeagueIDLaLiga        = "140"
)

const (
	SeedUserID = "demo-user"
	SeedTripID = "demo-trip-paris"
)

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDPremierLeague, Name: "Premier League", CountryCode: "GB", Tier: league.TierOne, TopFive: true},
		{ID: LeagueIDLaLiga, Name: "La Liga", CountryCode: "ES", Tier: league.TierOne, TopFive: true},
		{ID: LeagueIDSerieA, Name: "Serie A", CountryCode: "IT", Tier: league.TierOne, TopFive: true},
		{ID: LeagueIDBundesliga, Name: "Bundesliga", CountryCode: "DE", Tier: league.TierOne, TopFive: true},
		{ID: LeagueIDLigue1, Name: "Ligue 1", CountryCode: "FR", Tier: league.TierOne, TopFive: true},
		{ID: LeagueIDEredivisie, Name: "Eredivisie", CountryCode: "NL", Tier: league.TierTwo},
		{ID: LeagueIDPrimeiraLiga, Name: "Primeira Liga", CountryCode: "PT", Tier: league.TierTwo},
		{ID: LeagueIDChampionship, Name: "Championship", CountryCode: "GB", Tier: league.TierTwo},
		{ID: LeagueIDLigue2, Name: "Ligue 2", CountryCode: "FR", Tier: league.TierTwo},
		{ID: LeagueIDBundesliga2, Name: "2. Bundesliga", CountryCode: "DE", Tier: league.TierTwo},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "85", Name: "Paris Saint-Germain", Aliases: []string{"Paris Saint Germain", "PSG", "Paris SG"}},
		{ID: "81", Name: "Olympique de Marseille", Aliases: []string{"Marseille", "OM"}},
		{ID: "80", Name: "Olympique Lyonnais", Aliases: []string{"Lyon", "OL"}},
		{ID: "79", Name: "LOSC Lille", Aliases: []string{"Lille", "Lille OSC"}},
		{ID: "42", Name: "Arsenal", Aliases: []string{"Arsenal FC"}},
		{ID: "40", Name: "Liverpool", Aliases: []string{"Liverpool FC"}},
		{ID: "50", Name: "Manchester City", Aliases: []string{"Man City"}},
		{ID: "33", Name: "Manchester United", Aliases: []string{"Man United", "Man Utd"}},
		{ID: "529", Name: "FC Barcelona", Aliases: []string{"Barcelona", "Barca"}},
		{ID: "541", Name: "Real Madrid", Aliases: []string{"Real Madrid CF"}},
		{ID: "157", Name: "Bayern München", Aliases: []string{"Bayern Munich", "FC Bayern"}},
		{ID: "165", Name: "Borussia Dortmund", Aliases: []string{"Dortmund", "BVB"}},
		{ID: "489", Name: "AC Milan", Aliases: []string{"Milan"}},
		{ID: "505", Name: "Inter", Aliases: []string{"Inter Milan", "Internazionale"}},
	}
}

func SeedVenues() []venue.Venue {
	return []venue.Venue{
		{ID: "671", Name: "Parc des Princes", City: "Paris", Country: "France", Coordinates: geo.Point{Lat: 48.8414, Lng: 2.2530}},
		{ID: "12678", Name: "Stade Vélodrome", City: "Marseille", Country: "France", Coordinates: geo.Point{Lat: 43.2698, Lng: 5.3959}},
		{ID: "666", Name: "Groupama Stadium", City: "Décines-Charpieu", Country: "France", Coordinates: geo.Point{Lat: 45.7653, Lng: 4.9820}},
		{ID: "19207", Name: "Stade Pierre-Mauroy", City: "Villeneuve-d'Ascq", Country: "France", Coordinates: geo.Point{Lat: 50.6119, Lng: 3.1305}},
		{ID: "494", Name: "Emirates Stadium", City: "London", Country: "England", Coordinates: geo.Point{Lat: 51.5549, Lng: -0.1084}},
		{ID: "550", Name: "Anfield", City: "Liverpool", Country: "England", Coordinates: geo.Point{Lat: 53.4308, Lng: -2.9608}},
		{ID: "555", Name: "Etihad Stadium", City: "Manchester", Country: "England", Coordinates: geo.Point{Lat: 53.4831, Lng: -2.2004}},
		{ID: "556", Name: "Old Trafford", City: "Manchester", Country: "England", Coordinates: geo.Point{Lat: 53.4631, Lng: -2.2913}},
		{ID: "19939", Name: "Estadi Olímpic Lluís Companys", City: "Barcelona", Country: "Spain", Coordinates: geo.Point{Lat: 41.3647, Lng: 2.1557}},
		{ID: "1456", Name: "Estadio Santiago Bernabéu", City: "Madrid", Country: "Spain", Coordinates: geo.Point{Lat: 40.4531, Lng: -3.6883}},
		{ID: "700", Name: "Allianz Arena", City: "München", Country: "Germany", Coordinates: geo.Point{Lat: 48.2188, Lng: 11.6247}},
		{ID: "702", Name: "Signal Iduna Park", City: "Dortmund", Country: "Germany", Coordinates: geo.Point{Lat: 51.4926, Lng: 7.4519}},
		{ID: "907", Name: "Stadio Giuseppe Meazza", City: "Milano", Country: "Italy", Coordinates: geo.Point{Lat: 45.4781, Lng: 9.1240}},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{
			ID:   SeedUserID,
			Tier: user.TierPro,
			Preferences: user.Preferences{
				FavoriteTeams:        []string{"85"},
				FavoriteLeagues:      []string{LeagueIDLigue1},
				FavoriteVenues:       []string{"671"},
				Strength:             user.StrengthStandard,
				RecommendationRadius: user.DefaultRadiusMiles,
			},
		},
		{
			ID:   "demo-freemium",
			Tier: user.TierFreemium,
		},
	}
}

func SeedTrips() []trip.Trip {
	parcDesPrinces := geo.Point{Lat: 48.8414, Lng: 2.2530}
	return []trip.Trip{
		{
			ID:        SeedTripID,
			UserID:    SeedUserID,
			Name:      "Paris weekend",
			StartDate: "2026-11-06",
			EndDate:   "2026-11-10",
			Matches: []trip.SavedMatch{
				{
					MatchID:  "1387690",
					HomeTeam: "Paris Saint-Germain",
					AwayTeam: "Olympique Lyonnais",
					League:   "Ligue 1",
					Venue:    trip.Venue{ID: "671", Name: "Parc des Princes", City: "Paris", Country: "France", Coordinates: &parcDesPrinces},
					Date:     "2026-11-08T20:45:00Z",
				},
			},
		},
	}
}
