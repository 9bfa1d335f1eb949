package services

import "togetherwatch/internal/core/domain"

func recipientIDs(members []domain.Member) []domain.ConnID {
	ids := make([]domain.ConnID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ConnID)
	}
	return ids
}

// recipientIDsExcept computes the broadcast set with the sender removed.
// Echo suppression happens here, never by tagging on the client.
func recipientIDsExcept(members []domain.Member, exclude domain.ConnID) []domain.ConnID {
	ids := make([]domain.ConnID, 0, len(members))
	for _, m := range members {
		if m.ConnID == exclude {
			continue
		}
		ids = append(ids, m.ConnID)
	}
	return ids
}
