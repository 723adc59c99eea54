package search

import (
	"context"
	"fmt"
	"strings"
)

// MockClient serves canned search results without network access. It
// backs the --offline mode and the agent tests.
type MockClient struct{}

// NewMock returns a search client with canned results.
func NewMock() *MockClient {
	return &MockClient{}
}

// Search returns a canned result matched on keywords in the query.
func (m *MockClient) Search(_ context.Context, query string) (string, error) {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "l'oreal"), strings.Contains(lower, "loreal"), strings.Contains(lower, "l'oréal"):
		return "L'Oréal is a French cosmetics company that tests on animals where required by law, " +
			"particularly in mainland China. Sources: PETA, Cruelty-Free International. SOURCES CHECKED: 2", nil
	case strings.Contains(lower, "alternative") || strings.Contains(lower, "cruelty free") || strings.Contains(lower, "cruelty-free"):
		switch {
		case strings.Contains(lower, "mascara"):
			return "Cruelty-free mascara alternatives include: e.l.f. Big Mood Mascara ($7), " +
				"Pacifica Dream Big ($12), Essence Lash Princess ($5), Milk Makeup Kush ($24). " +
				"Sources: Brand websites, Leaping Bunny database. SOURCES CHECKED: 2", nil
		case strings.Contains(lower, "foundation"):
			return "Cruelty-free foundations: e.l.f. Flawless Finish ($7), Pacifica Alight ($14), " +
				"Physician's Formula Healthy ($13). Sources: Leaping Bunny, brand sites. SOURCES CHECKED: 2", nil
		case strings.Contains(lower, "lipstick"):
			return "Cruelty-free lipsticks: e.l.f. Satin ($3), Pacifica Color Quench ($9), " +
				"Bite Beauty ($18). Sources: PETA, Leaping Bunny. SOURCES CHECKED: 2", nil
		}
	}

	return fmt.Sprintf("Search results for: %s", query), nil
}
