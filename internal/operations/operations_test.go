package operations

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OperationsSuite struct {
	suite.Suite
}

func TestOperationsSuite(t *testing.T) {
	suite.Run(t, new(OperationsSuite))
}

// Operation names feed metrics labels and logs; they must stay unique and
// stable.
func (s *OperationsSuite) TestRequestNames() {
	requests := []Request{
		GetIdentity{},
		CreateIdentity{},
		UpdateIdentity{},
		GetTravelProfile{},
		UpdateTravelProfile{},
		UpdateLoyaltyProgram{},
		ListProfileSummaries{},
	}

	seen := make(map[string]bool)
	for _, r := range requests {
		name := r.Name()
		s.NotEmpty(name)
		s.False(seen[name], "duplicate operation name %q", name)
		seen[name] = true
	}
}
