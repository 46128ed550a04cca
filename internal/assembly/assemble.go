package assembly

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// Assemble combines the selected photos, the generated description and the
// facts into the final profile result. The combination is pure: the selected
// photos pass through in the order given, without resorting. Empty selection
// or missing description are precondition violations.
func Assemble(selected []types.PhotoRecord, description *types.GeneratedDescription, facts types.ProfileFacts) (*types.ProfileResult, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("no photos selected for assembly")
	}
	if description == nil {
		return nil, fmt.Errorf("no description provided for assembly")
	}

	photos := make([]types.PhotoRecord, len(selected))
	copy(photos, selected)

	return &types.ProfileResult{
		SessionID:      uuid.New(),
		CreatedAt:      time.Now().UTC(),
		SelectedPhotos: photos,
		Description:    description,
		Facts:          facts,
	}, nil
}
