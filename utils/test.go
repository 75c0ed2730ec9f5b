// Package utils holds helpers shared by the tests of several packages.
package utils

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"stationsummary/stats"
)

var stationNames = []string{
	"Abha", "Abidjan", "Abéché", "Accra", "Addis Ababa", "Adelaide", "Aden",
	"Ahvaz", "Albuquerque", "Alexandra", "Alexandria", "Algiers", "Alice Springs",
	"Almaty", "Amsterdam", "Anadyr", "Anchorage", "Andorra la Vella", "Ankara",
	"Antananarivo", "Antsiranana", "Arkhangelsk", "Ashgabat", "Asmara", "Assab",
	"Astana", "Athens", "Atlanta", "Auckland", "Austin", "Baghdad", "Baguio",
	"Baku", "Baltimore", "Bamako", "Bangkok", "Bangui", "Banjul", "Barcelona",
	"Bata", "Batumi", "Beijing", "Beirut", "Belgrade", "Belize City", "Benghazi",
	"Bergen", "Berlin", "Bilbao", "Birao", "Bishkek", "Bissau", "Blantyre",
	"Bloemfontein", "Boise", "Bordeaux", "Bosaso", "Boston", "Bouaké",
	"Bratislava", "Brazzaville", "Bridgetown", "Brisbane", "Brussels",
	"Bucharest", "Budapest", "Bujumbura", "Bulawayo", "Burnie", "Busan",
	"Cabo San Lucas", "Cairns", "Cairo", "Calgary", "Canberra", "Cape Town",
	"Changsha", "Charlotte", "Chiang Mai", "Chicago", "Chihuahua", "Chișinău",
	"Chittagong", "Chongqing", "Christchurch", "City of San Marino", "Colombo",
	"Columbus", "Conakry", "Copenhagen", "Cotonou", "Cracow", "Da Lat",
	"Da Nang", "Dakar", "Dallas", "Damascus", "Dampier", "Dar es Salaam",
	"Darwin", "Denpasar", "Denver", "Detroit", "Dhaka", "Dikson", "Dili",
	"Djibouti", "Dodoma", "Dolisie", "Douala", "Dubai", "Dublin", "Dunedin",
	"Durban", "Dushanbe", "Edinburgh", "Edmonton", "El Paso", "Entebbe",
	"Erbil", "Erzurum", "Fairbanks", "Fianarantsoa", "Flores,  Petén", "Frankfurt",
	"Fresno", "Fukuoka", "Gabès", "Gaborone", "Gagnoa", "Gangtok", "Garissa",
	"Garoua", "George Town", "Ghanzi", "Gjoa Haven", "Guadalajara", "Guangzhou",
	"Guatemala City", "Halifax", "Hamburg", "Hamilton", "Hanga Roa", "Hanoi",
	"Harare", "Harbin", "Hargeisa", "Hat Yai", "Havana", "Helsinki",
	"Heraklion", "Hiroshima", "Ho Chi Minh City", "Hobart", "Hong Kong",
	"Honiara", "Honolulu", "Houston", "Ifrane", "Indianapolis", "Iqaluit",
	"Irkutsk", "Istanbul", "İzmir", "Jacksonville", "Jakarta", "Jayapura",
	"Jerusalem", "Johannesburg", "Jos", "Juba", "Kabul", "Kampala", "Kandi",
	"Kankan", "Kano", "Kansas City", "Karachi", "Karonga", "Kathmandu",
	"Khartoum", "Kingston", "Kinshasa", "Kolkata", "Kuala Lumpur", "Kumasi",
	"Kunming", "Kuopio", "Kuwait City", "Kyiv", "Kyoto", "La Ceiba",
	"La Paz", "Lagos", "Lahore", "Lake Havasu City", "Lake Tekapo",
	"Las Palmas de Gran Canaria", "Las Vegas", "Launceston", "Lhasa",
	"Libreville", "Lisbon", "Livingstone", "Ljubljana", "Lodwar", "Lomé",
	"London", "Los Angeles", "Louisville", "Luanda", "Lubumbashi", "Lusaka",
	"Luxembourg City", "Lviv", "Lyon", "Madrid", "Mahajanga", "Makassar",
	"Makurdi", "Malabo", "Malé", "Managua", "Manama", "Mandalay", "Mango",
	"Manila", "Maputo", "Marrakesh", "Marseille", "Maun", "Medan", "Mek'ele",
	"Melbourne", "Memphis", "Mexicali", "Mexico City", "Miami", "Milan",
	"Milwaukee", "Minneapolis", "Minsk", "Mogadishu", "Mombasa", "Monaco",
	"Moncton", "Monterrey", "Montreal", "Moscow", "Mumbai", "Murmansk",
	"Muscat", "Mzuzu", "N'Djamena", "Naha", "Nairobi", "Nakhon Ratchasima",
	"Napier", "Napoli", "Nashville", "Nassau", "Ndola", "New Delhi",
	"New Orleans", "New York City", "Ngaoundéré", "Niamey", "Nicosia",
	"Niigata", "Nouadhibou", "Nouakchott", "Novosibirsk", "Nuuk", "Odesa",
	"Odienné", "Oklahoma City", "Omaha", "Oranjestad", "Oslo", "Ottawa",
	"Ouagadougou", "Ouahigouya", "Ouarzazate", "Oulu", "Palembang",
	"Palermo", "Palm Springs", "Palmerston North", "Panama City", "Parakou",
	"Paris", "Perth", "Petropavlovsk-Kamchatsky", "Philadelphia", "Phnom Penh",
	"Phoenix", "Pittsburgh", "Podgorica", "Pointe-Noire", "Pontianak",
	"Port Moresby", "Port Sudan", "Port Vila", "Port-Gentil", "Portland (OR)",
	"Porto", "Prague", "Praia", "Pretoria", "Pyongyang", "Rabat", "Rangpur",
	"Reggane", "Reykjavík", "Riga", "Riyadh", "Rome", "Roseau", "Rostov-on-Don",
	"Sacramento", "Saint Petersburg", "Saint-Pierre", "Salt Lake City",
	"San Antonio", "San Diego", "San Francisco", "San Jose", "San José",
	"San Juan", "San Salvador", "Sana'a", "Santo Domingo", "Sapporo",
	"Sarajevo", "Saskatoon", "Seattle", "Ségou", "Seoul", "Seville",
	"Shanghai", "Singapore", "Skopje", "Sochi", "Sofia", "Sokoto", "Split",
	"St. John's", "St. Louis", "Stockholm", "Surabaya", "Suva", "Suwałki",
	"Sydney", "Tabora", "Tabriz", "Taipei", "Tallinn", "Tamale", "Tamanrasset",
	"Tampa", "Tashkent", "Tauranga", "Tbilisi", "Tegucigalpa", "Tehran",
	"Tel Aviv", "Thessaloniki", "Thiès", "Tijuana", "Timbuktu", "Tirana",
	"Toamasina", "Tokyo", "Toliara", "Toluca", "Toronto", "Tripoli", "Tromsø",
	"Tucson", "Tunis", "Ulaanbaatar", "Upington", "Ürümqi", "Vaduz",
	"Valencia", "Valletta", "Vancouver", "Veracruz", "Vienna", "Vientiane",
	"Villahermosa", "Vilnius", "Virginia Beach", "Vladivostok", "Warsaw",
	"Washington, D.C.", "Wau", "Wellington", "Whitehorse", "Wichita",
	"Willemstad", "Winnipeg", "Wrocław", "Xi'an", "Yakutsk", "Yangon",
	"Yaoundé", "Yellowknife", "Yerevan", "Yinchuan", "Zagreb", "Zanzibar City",
	"Zürich",
}

// GenerateMeasurements returns n "station;value\n" records drawn from the
// first `stations` station names with values in [-99.9, 99.9].
func GenerateMeasurements(seed int64, n int, stations int) []byte {
	if stations <= 0 || stations > len(stationNames) {
		stations = len(stationNames)
	}
	rng := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		scaled := rng.Int63n(1999) - 999
		buf.WriteString(stationNames[rng.Intn(stations)])
		buf.WriteByte(';')
		if scaled < 0 {
			buf.WriteByte('-')
			scaled = -scaled
		}
		fmt.Fprintf(&buf, "%d.%d\n", scaled/10, scaled%10)
	}
	return buf.Bytes()
}

// Aggregate is a deliberately naive reference implementation, using
// bytes.Split and strconv, for cross-checking the engine.
func Aggregate(data []byte) (map[string]stats.Statistic, error) {
	result := make(map[string]stats.Statistic)
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		parts := bytes.SplitN(line, []byte{';'}, 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: missing delimiter", i+1)
		}
		f, err := strconv.ParseFloat(string(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		value := int64(math.Round(f * 10))
		key := string(parts[0])
		if s, ok := result[key]; ok {
			s.Add(value)
			result[key] = s
		} else {
			result[key] = stats.New(value)
		}
	}
	return result, nil
}

// WriteFile writes data to a fresh file under t.TempDir.
func WriteFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
