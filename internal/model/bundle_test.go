package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestBundleCreditsLeft(t *testing.T) {
    b := Bundle{SessionsIncluded: 10, SessionsUsed: 3}
    assert.Equal(t, uint32(7), b.CreditsLeft())

    b.SessionsUsed = 10
    assert.Equal(t, uint32(0), b.CreditsLeft())

    // Used beyond included never goes negative.
    b.SessionsUsed = 12
    assert.Equal(t, uint32(0), b.CreditsLeft())
}

func TestBundleExpired(t *testing.T) {
    now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
    b := Bundle{ExpiryDate: now}

    assert.False(t, b.Expired(now), "expiry instant itself is still usable")
    assert.True(t, b.Expired(now.Add(time.Second)))
    assert.False(t, b.Expired(now.Add(-time.Second)))
}

func TestRoleSets(t *testing.T) {
    assert.True(t, ValidRole("ADMIN"))
    assert.True(t, ValidRole("CHILD"))
    assert.False(t, ValidRole("OWNER"))
    assert.False(t, ValidRole("admin"))

    assert.True(t, RolePlayer.CanPlay())
    assert.True(t, RoleChild.CanPlay())
    assert.False(t, RoleParent.CanPlay())
    assert.False(t, RoleCoach.CanPlay())
}
