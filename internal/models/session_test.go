package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValidate(t *testing.T) {
	cases := []struct {
		name    string
		session Session
		wantErr error
	}{
		{name: "valid", session: Session{ID: "a", Date: "2024-03-01", Time: "10:30"}},
		{name: "valid without time", session: Session{ID: "a", Date: "2024-03-01"}},
		{name: "missing id", session: Session{Date: "2024-03-01"}, wantErr: ErrMissingID},
		{name: "bad date", session: Session{ID: "a", Date: "01-03-2024"}, wantErr: ErrInvalidDate},
		{name: "impossible date", session: Session{ID: "a", Date: "2023-02-29"}, wantErr: ErrInvalidDate},
		{name: "bad time", session: Session{ID: "a", Date: "2024-03-01", Time: "25:00"}, wantErr: ErrInvalidTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.session.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestSessionNormalizeStampsRoles(t *testing.T) {
	s := &Session{
		Photographer: Member{Name: "Ana", Role: RoleModel},
		Model:        Member{Name: "Bo"},
		MUA:          Member{Name: "Cy"},
	}

	s.Normalize()

	assert.Equal(t, RolePhotographer, s.Photographer.Role)
	assert.Equal(t, RoleModel, s.Model.Role)
	assert.Equal(t, RoleMUA, s.MUA.Role)
}

func TestSortByDateIsStable(t *testing.T) {
	sessions := []*Session{
		{ID: "late", Date: "2024-05-02"},
		{ID: "first-of-day", Date: "2024-05-01"},
		{ID: "second-of-day", Date: "2024-05-01"},
		{ID: "early", Date: "2024-04-30"},
	}

	SortByDate(sessions)

	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"early", "first-of-day", "second-of-day", "late"}, ids)
}

func TestSessionStartsAt(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)

	s := &Session{Date: "2024-06-15", Time: "18:45"}
	start, err := s.StartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 18, 45, 0, 0, loc), start)

	s.Time = ""
	start, err = s.StartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, loc), start)
}

func TestSessionDisplayDate(t *testing.T) {
	s := &Session{Date: "2024-06-05"}
	assert.Equal(t, "05-06-2024", s.DisplayDate())
}

func TestMemberInstagramURL(t *testing.T) {
	assert.Equal(t, "https://instagram.com/lens.ana", Member{Instagram: "@lens.ana"}.InstagramURL())
	assert.Equal(t, "https://instagram.com/lens.ana", Member{Instagram: "lens.ana"}.InstagramURL())
}
