package parentchild

import (
	"context"
	"fmt"
	"time"

	"clubhub/clients/store"
	"clubhub/services/user"
	"clubhub/set"

	"github.com/rs/zerolog/log"
)

// Reconcile sweeps for the debris of partially failed multi-step mutations:
// relationship rows naming a deleted user, parentIds/childIds entries with no
// backing account, and team rosters still carrying a deleted child. Each
// repair is independent; one failure does not stop the sweep.
func (s *service) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	users, err := s.userService.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	known := set.New[string]()
	for _, u := range users {
		known.Add(u.ID)
	}

	report := &ReconcileReport{}

	docs, err := s.db.Query(ctx, store.Query{Collection: Collection})
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	for _, doc := range docs {
		rel := Relationship{}
		if err := doc.DataTo(&rel); err != nil {
			log.Warn().Err(err).Str("relationshipId", doc.ID()).Msg("skipping undecodable relationship")
			continue
		}
		if known.Contains(rel.ParentID) && known.Contains(rel.ChildID) {
			continue
		}
		if err := s.db.Delete(ctx, Collection, rel.ID); err != nil {
			log.Warn().Err(err).Str("relationshipId", rel.ID).Msg("failed to delete orphaned relationship")
			continue
		}
		report.OrphanedRelationships++
	}

	clubIDs := set.New[string]()
	for _, u := range users {
		fields := map[string]any{}
		if pruned, n := pruneMissing(u.ParentIDs, known); n > 0 {
			fields["parentIds"] = pruned
			report.StaleParentRefs += n
		}
		if pruned, n := pruneMissing(u.ChildIDs, known); n > 0 {
			fields["childIds"] = pruned
			report.StaleChildRefs += n
		}
		if len(fields) > 0 {
			fields["updatedAt"] = time.Now()
			if err := s.db.Merge(ctx, user.Collection, u.ID, fields); err != nil {
				log.Warn().Err(err).Str("userId", u.ID).Msg("failed to prune stale references")
			}
		}
		for _, clubID := range u.ClubIDs {
			clubIDs.Add(clubID)
		}
	}

	clubs, err := s.clubService.GetClubs(ctx, clubIDs.ToSlice())
	if err != nil {
		return report, fmt.Errorf("failed to list clubs: %w", err)
	}
	for _, c := range clubs {
		for _, t := range c.Teams {
			for _, memberID := range t.Roster().ToSlice() {
				if known.Contains(memberID) {
					continue
				}
				if err := s.clubService.RemoveTeamMember(ctx, c.ID, t.ID, memberID); err != nil {
					log.Warn().Err(err).Str("teamId", t.ID).Str("userId", memberID).Msg("failed to prune roster")
					continue
				}
				report.RosterRemovals++
			}
		}
	}

	return report, nil
}

func pruneMissing(ids []string, known *set.Set[string]) ([]string, int) {
	pruned := make([]string, 0, len(ids))
	removed := 0
	for _, id := range ids {
		if known.Contains(id) {
			pruned = append(pruned, id)
			continue
		}
		removed++
	}
	return pruned, removed
}
