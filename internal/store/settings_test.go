package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adchat/internal/storage"
	"adchat/pkg/chattypes"
)

func TestSettingsStore_StartsWithDefaults(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	settings := settingsStore.ModelSettings()
	assert.Equal(t, chattypes.DefaultModelName, settings.ModelName)
	assert.Equal(t, chattypes.DefaultTemperature, settings.Temperature)
	assert.Equal(t, chattypes.DefaultMaxTokens, settings.MaxTokens)
	assert.Empty(t, settings.APIKey)
	assert.Empty(t, settingsStore.Accounts())
}

func TestSettingsStore_UpdateModelSettingsMergesPartially(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	temp := 0.2
	settingsStore.UpdateModelSettings(chattypes.ModelSettingsUpdate{Temperature: &temp})

	settings := settingsStore.ModelSettings()
	assert.Equal(t, 0.2, settings.Temperature)
	// Untouched fields keep their prior values.
	assert.Equal(t, chattypes.DefaultModelName, settings.ModelName)
	assert.Equal(t, chattypes.DefaultMaxTokens, settings.MaxTokens)
}

func TestSettingsStore_ResetModelSettings(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	key := "sk-live-key"
	model := "anthropic/claude-3-opus"
	settingsStore.UpdateModelSettings(chattypes.ModelSettingsUpdate{APIKey: &key, ModelName: &model})
	settingsStore.ResetModelSettings()

	assert.Equal(t, chattypes.DefaultModelSettings(), settingsStore.ModelSettings())
}

func TestSettingsStore_AddAccountGeneratesIdentity(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	account, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name:     "Main ads account",
		Token:    "tok-1",
		ClientID: "client-1",
		IsActive: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())
	assert.True(t, account.IsActive)

	accounts := settingsStore.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, account.ID, accounts[0].ID)
}

func TestSettingsStore_AddAccountReportsAllFailuresAtOnce(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	_, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name:     "  ",
		Token:    "",
		ClientID: "client-1",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "account name is required")
	assert.ErrorContains(t, err, "account token is required")
	assert.NotContains(t, err.Error(), "clientId")

	// A rejected add mutates nothing.
	assert.Empty(t, settingsStore.Accounts())
}

func TestSettingsStore_UpdateAccountMergesFields(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	account, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Main", Token: "tok", ClientID: "client-1",
	})
	require.NoError(t, err)

	name := "Renamed"
	settingsStore.UpdateAccount(account.ID, chattypes.LinkedAccountUpdate{Name: &name})

	updated, found := settingsStore.AccountByID(account.ID)
	require.True(t, found)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "tok", updated.Token)
	assert.True(t, updated.CreatedAt.Equal(account.CreatedAt))
}

func TestSettingsStore_UnknownIDsAreSilentNoOps(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	account, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Main", Token: "tok", ClientID: "client-1",
	})
	require.NoError(t, err)

	name := "other"
	settingsStore.UpdateAccount("no-such-id", chattypes.LinkedAccountUpdate{Name: &name})
	settingsStore.RemoveAccount("no-such-id")
	settingsStore.ToggleAccount("no-such-id")

	accounts := settingsStore.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, account.Name, accounts[0].Name)
	assert.Equal(t, account.IsActive, accounts[0].IsActive)
}

func TestSettingsStore_ToggleAccountFlipsOnlyTarget(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	first, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "First", Token: "t1", ClientID: "c1", IsActive: true,
	})
	require.NoError(t, err)
	second, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Second", Token: "t2", ClientID: "c2", IsActive: false,
	})
	require.NoError(t, err)

	settingsStore.ToggleAccount(second.ID)

	got, _ := settingsStore.AccountByID(second.ID)
	assert.True(t, got.IsActive)
	untouched, _ := settingsStore.AccountByID(first.ID)
	assert.True(t, untouched.IsActive)

	settingsStore.ToggleAccount(second.ID)
	got, _ = settingsStore.AccountByID(second.ID)
	assert.False(t, got.IsActive)
}

func TestSettingsStore_RemoveAccount(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	first, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "First", Token: "t1", ClientID: "c1",
	})
	require.NoError(t, err)
	second, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Second", Token: "t2", ClientID: "c2",
	})
	require.NoError(t, err)

	settingsStore.RemoveAccount(first.ID)

	accounts := settingsStore.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, second.ID, accounts[0].ID)
}

func TestSettingsStore_ActiveAccountsFilters(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	_, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "On", Token: "t1", ClientID: "c1", IsActive: true,
	})
	require.NoError(t, err)
	_, err = settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Off", Token: "t2", ClientID: "c2", IsActive: false,
	})
	require.NoError(t, err)

	active := settingsStore.ActiveAccounts()
	require.Len(t, active, 1)
	assert.Equal(t, "On", active[0].Name)
}

func TestSettingsStore_IsConfigured(t *testing.T) {
	settingsStore := NewSettingsStore(nil)
	assert.False(t, settingsStore.HasAPIKey())
	assert.False(t, settingsStore.IsConfigured())

	key := "sk-live-key"
	settingsStore.UpdateModelSettings(chattypes.ModelSettingsUpdate{APIKey: &key})
	assert.True(t, settingsStore.HasAPIKey())
	// Still needs an active account.
	assert.False(t, settingsStore.IsConfigured())

	account, err := settingsStore.AddAccount(chattypes.LinkedAccountInput{
		Name: "Main", Token: "tok", ClientID: "c1", IsActive: true,
	})
	require.NoError(t, err)
	assert.True(t, settingsStore.IsConfigured())

	settingsStore.ToggleAccount(account.ID)
	assert.False(t, settingsStore.IsConfigured())
}

func TestSettingsStore_PersistsAcrossReloads(t *testing.T) {
	persist, err := storage.New(t.TempDir())
	require.NoError(t, err)

	first := NewSettingsStore(persist)
	key := "sk-live-key"
	temp := 0.4
	first.UpdateModelSettings(chattypes.ModelSettingsUpdate{APIKey: &key, Temperature: &temp})
	account, err := first.AddAccount(chattypes.LinkedAccountInput{
		Name: "Main", Token: "tok", ClientID: "c1", IsActive: true,
	})
	require.NoError(t, err)

	second := NewSettingsStore(persist)
	settings := second.ModelSettings()
	assert.Equal(t, key, settings.APIKey)
	assert.Equal(t, 0.4, settings.Temperature)

	accounts := second.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, account.ID, accounts[0].ID)
	assert.True(t, accounts[0].CreatedAt.Equal(account.CreatedAt))
}

func TestSettingsStore_SubscribeNotifiesOnMutation(t *testing.T) {
	settingsStore := NewSettingsStore(nil)

	calls := 0
	unsub := settingsStore.Subscribe(func() { calls++ })

	temp := 0.1
	settingsStore.UpdateModelSettings(chattypes.ModelSettingsUpdate{Temperature: &temp})
	assert.Equal(t, 1, calls)

	unsub()
	settingsStore.ResetModelSettings()
	assert.Equal(t, 1, calls, "unsubscribed callback must not fire")
}
