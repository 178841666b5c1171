package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTeam(t *testing.T, ts *testutil.TestServer, token, name string) *domain.Team {
	t.Helper()

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/teams"),
		map[string]string{"name": name}, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var team domain.Team
	testutil.AssertJSONResponse(t, resp, &team)
	return &team
}

func TestTeamCreate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	owner, token := testutil.NewUserBuilder().
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)

	team := createTeam(t, ts, token, "Alpha Squad")
	assert.Equal(t, owner.ID, team.OwnerUserID)

	// The owner is enrolled as the team's first admin member
	var member domain.Member
	require.NoError(t, ts.DB.DB.First(&member, "email = ?", owner.Email).Error)
	var teamMember domain.TeamMember
	require.NoError(t, ts.DB.DB.First(&teamMember,
		"team_id = ? AND member_id = ?", team.ID, member.ID).Error)
	assert.Equal(t, roles[domain.RoleAdmin].ID, teamMember.RoleID)

	// One team per owner
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/teams"),
		map[string]string{"name": "Second Team"}, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "user already owns a team")
}

func TestTeamCreate_NonAdminForbidden(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	testutil.SeedRoles(t, ts.DB.DB)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/teams"),
		map[string]string{"name": "Rogue Team"}, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "admin access required")
}

func TestTeamAllowedRoles_ExcludesAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	testutil.SeedRoles(t, ts.DB.DB)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/teams/roles"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result []domain.Role
	testutil.AssertJSONResponse(t, resp, &result)
	require.NotEmpty(t, result)
	for _, role := range result {
		assert.NotEqual(t, domain.RoleAdmin, role.Name)
	}
}

func TestTeamInviteAndAccept(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	_, token := testutil.NewUserBuilder().
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)
	team := createTeam(t, ts, token, "Invite Team")

	invite := func(email string) *http.Response {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL(fmt.Sprintf("/teams/%s/invitations", team.ID)),
			map[string]string{"email": email, "role_id": roles["Analyst"].ID.String()},
			token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := invite("newmember@example.com")
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// A second pending invitation for the same email is rejected
	dupResp := invite("newmember@example.com")
	defer dupResp.Body.Close()
	testutil.AssertErrorResponse(t, dupResp, http.StatusBadRequest, "already pending")

	// The token travels out of band; fetch it from the ledger
	var invitation domain.TeamInvitation
	require.NoError(t, ts.DB.DB.First(&invitation,
		"team_id = ? AND email = ?", team.ID, "newmember@example.com").Error)
	require.Len(t, invitation.Token, 16, "invite tokens are 8 random bytes hex encoded")

	acceptReq := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		ts.APIURL("/teams/accept-invitation"),
		map[string]string{
			"token":    invitation.Token,
			"name":     "New Member",
			"password": "memberpass",
		}, "")
	acceptResp, err := http.DefaultClient.Do(acceptReq)
	require.NoError(t, err)
	defer acceptResp.Body.Close()
	testutil.AssertStatusCode(t, acceptResp, http.StatusCreated)

	var member domain.Member
	testutil.AssertJSONResponse(t, acceptResp, &member)
	assert.Equal(t, "newmember@example.com", member.Email)

	var teamMember domain.TeamMember
	require.NoError(t, ts.DB.DB.First(&teamMember,
		"team_id = ? AND member_id = ?", team.ID, member.ID).Error)
	assert.Equal(t, roles["Analyst"].ID, teamMember.RoleID)

	var settled domain.TeamInvitation
	require.NoError(t, ts.DB.DB.First(&settled, "id = ?", invitation.ID).Error)
	assert.Equal(t, domain.InvitationStatusAccepted, settled.Status)
	assert.NotNil(t, settled.AcceptedAt)

	// Accepting the same invitation again is rejected
	retryReq := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		ts.APIURL("/teams/accept-invitation"),
		map[string]string{
			"token":    invitation.Token,
			"name":     "Someone Else",
			"password": "otherpass",
		}, "")
	retryResp, err := http.DefaultClient.Do(retryReq)
	require.NoError(t, err)
	defer retryResp.Body.Close()
	testutil.AssertErrorResponse(t, retryResp, http.StatusBadRequest, "no longer valid")

	// An existing member cannot be invited again
	memberResp := invite("newmember@example.com")
	defer memberResp.Body.Close()
	testutil.AssertErrorResponse(t, memberResp, http.StatusBadRequest, "already a member")
}

func TestTeamAcceptInvitation_Expired(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	admin, token := testutil.NewUserBuilder().
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)
	team := createTeam(t, ts, token, "Expiry Team")

	invitation := &domain.TeamInvitation{
		ID:              uuid.New(),
		TeamID:          team.ID,
		Email:           "latecomer@example.com",
		RoleID:          roles["Analyst"].ID,
		InvitedByUserID: admin.ID,
		Token:           "00112233aabbccdd",
		Status:          domain.InvitationStatusPending,
	}
	require.NoError(t, ts.DB.DB.Create(invitation).Error)
	require.NoError(t, ts.DB.DB.Model(invitation).
		Update("created_at", time.Now().Add(-25*time.Hour)).Error)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		ts.APIURL("/teams/accept-invitation"),
		map[string]string{
			"token":    invitation.Token,
			"name":     "Late Comer",
			"password": "latepass",
		}, "")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "expired")

	var stored domain.TeamInvitation
	require.NoError(t, ts.DB.DB.First(&stored, "id = ?", invitation.ID).Error)
	assert.Equal(t, domain.InvitationStatusExpired, stored.Status)
}

func TestTeamInvite_RequiresTeamAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	_, adminToken := testutil.NewUserBuilder().
		WithDocument("52998224725").
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)
	team := createTeam(t, ts, adminToken, "Locked Team")

	// A platform user outside the team cannot invite into it
	_, outsiderToken := testutil.NewUserBuilder().
		WithDocument("11144477735").
		WithPhone("+5511955554444").
		BuildAndLogin(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		ts.APIURL(fmt.Sprintf("/teams/%s/invitations", team.ID)),
		map[string]string{"email": "x@example.com", "role_id": roles["Analyst"].ID.String()},
		outsiderToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "not a member of this team")
}

func TestTeamInvite_UnknownTeam(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	_, token := testutil.NewUserBuilder().
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		ts.APIURL(fmt.Sprintf("/teams/%s/invitations", uuid.New())),
		map[string]string{"email": "x@example.com", "role_id": roles["Analyst"].ID.String()},
		token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "team not found")
}

func TestTeamRemoveMemberAndList(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedUserLevels(t, ts.DB.DB)
	roles := testutil.SeedRoles(t, ts.DB.DB)

	_, token := testutil.NewUserBuilder().
		WithRoles(roles[domain.RoleAdmin]).
		BuildAndLogin(t, ts)
	team := createTeam(t, ts, token, "Roster Team")

	extra := &domain.Member{
		ID:           uuid.New(),
		Email:        "roster@example.com",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceh",
		Name:         "Roster Member",
		Active:       true,
	}
	require.NoError(t, ts.DB.DB.Create(extra).Error)
	require.NoError(t, ts.DB.DB.Create(&domain.TeamMember{
		TeamID:   team.ID,
		MemberID: extra.ID,
		RoleID:   roles["Analyst"].ID,
		JoinedAt: time.Now(),
	}).Error)

	listReq := testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		ts.APIURL(fmt.Sprintf("/teams/%s/members", team.ID)), nil, token)
	listResp, err := http.DefaultClient.Do(listReq)
	require.NoError(t, err)
	defer listResp.Body.Close()
	testutil.AssertStatusCode(t, listResp, http.StatusOK)

	var details []domain.TeamMemberDetail
	testutil.AssertJSONResponse(t, listResp, &details)
	require.Len(t, details, 2)

	removeReq := testutil.CreateAuthenticatedRequest(t, http.MethodDelete,
		ts.APIURL(fmt.Sprintf("/teams/%s/members/%s", team.ID, extra.ID)), nil, token)
	removeResp, err := http.DefaultClient.Do(removeReq)
	require.NoError(t, err)
	defer removeResp.Body.Close()
	testutil.AssertStatusCode(t, removeResp, http.StatusOK)

	var count int64
	require.NoError(t, ts.DB.DB.Model(&domain.TeamMember{}).
		Where("team_id = ?", team.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
