package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finconnect/portal/internal/models"
	"github.com/finconnect/portal/internal/notify"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
	"github.com/finconnect/portal/internal/storage"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestStore(kv storage.Store) (*entitlementservice.EntitlementStore, *notify.Feed) {
	feed := notify.NewFeed(newNoopLogger(), 50)
	return entitlementservice.NewEntitlementStore(kv, feed, newNoopLogger(), 0), feed
}

func developer() *models.User {
	return &models.User{ID: "user-123", Email: "user@example.com", Role: models.RoleDeveloper}
}

func TestDerive(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name             string
		user             *models.User
		sub              *models.Subscription
		wantSubscribed   bool
		wantPlanResolved string
	}{
		{
			name: "no user no subscription",
		},
		{
			name: "user without subscription",
			user: developer(),
		},
		{
			name:             "active premium subscription",
			user:             developer(),
			sub:              &models.Subscription{UserID: "user-123", PlanID: "premium", Status: models.SubscriptionActive, StartDate: now},
			wantSubscribed:   true,
			wantPlanResolved: "premium",
		},
		{
			name:             "cancelled subscription is not active but plan still resolves",
			user:             developer(),
			sub:              &models.Subscription{UserID: "user-123", PlanID: "basic", Status: models.SubscriptionCancelled, StartDate: now},
			wantSubscribed:   false,
			wantPlanResolved: "basic",
		},
		{
			name:           "active subscription with unknown plan",
			user:           developer(),
			sub:            &models.Subscription{UserID: "user-123", PlanID: "legacy-gold", Status: models.SubscriptionActive, StartDate: now},
			wantSubscribed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entitlementservice.Derive(tt.user, tt.sub, models.Plans)
			assert.Equal(t, tt.wantSubscribed, got.IsSubscribed)
			if tt.wantPlanResolved == "" {
				assert.Nil(t, got.CurrentPlan)
			} else {
				require.NotNil(t, got.CurrentPlan)
				assert.Equal(t, tt.wantPlanResolved, got.CurrentPlan.ID)
			}
		})
	}
}

func TestEntitlementStore_SubscribeRequiresIdentity(t *testing.T) {
	kv := storage.NewMemory()
	store, feed := newTestStore(kv)
	store.HandleIdentityChange(nil)

	_, err := store.Subscribe(context.Background(), "premium")
	assert.ErrorIs(t, err, entitlementservice.ErrNotAuthenticated)
	assert.Nil(t, store.Subscription())

	var sub models.Subscription
	assert.ErrorIs(t, kv.Get(storage.KeySubscription, &sub), storage.ErrNotFound)

	items := feed.List()
	require.NotEmpty(t, items)
	assert.Equal(t, "Subscription Failed", items[0].Title)
}

func TestEntitlementStore_Subscribe(t *testing.T) {
	kv := storage.NewMemory()
	store, feed := newTestStore(kv)
	store.HandleIdentityChange(developer())

	sub, err := store.Subscribe(context.Background(), "premium")
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub.UserID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Nil(t, sub.EndDate)

	current := store.Current()
	assert.True(t, current.IsSubscribed)
	require.NotNil(t, current.CurrentPlan)
	assert.Equal(t, "premium", current.CurrentPlan.ID)

	var stored models.Subscription
	require.NoError(t, kv.Get(storage.KeySubscription, &stored))
	assert.Equal(t, sub.ID, stored.ID)

	items := feed.List()
	require.NotEmpty(t, items)
	assert.Equal(t, "Subscription Activated", items[0].Title)
	assert.Contains(t, items[0].Message, "Premium")
}

func TestEntitlementStore_SubscribeUnknownPlanIsPermissive(t *testing.T) {
	store, _ := newTestStore(storage.NewMemory())
	store.HandleIdentityChange(developer())

	sub, err := store.Subscribe(context.Background(), "legacy-gold")
	require.NoError(t, err)
	assert.Equal(t, "legacy-gold", sub.PlanID)

	current := store.Current()
	assert.True(t, current.IsSubscribed)
	assert.Nil(t, current.CurrentPlan)
}

func TestEntitlementStore_SubscribeEmptyPlan(t *testing.T) {
	store, _ := newTestStore(storage.NewMemory())
	store.HandleIdentityChange(developer())

	_, err := store.Subscribe(context.Background(), "")
	assert.ErrorIs(t, err, entitlementservice.ErrEmptyPlanID)
	assert.Nil(t, store.Subscription())
}

func TestEntitlementStore_SubscribeSupersedesPrevious(t *testing.T) {
	store, _ := newTestStore(storage.NewMemory())
	store.HandleIdentityChange(developer())

	first, err := store.Subscribe(context.Background(), "basic")
	require.NoError(t, err)
	second, err := store.Subscribe(context.Background(), "enterprise")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	current := store.Current()
	require.NotNil(t, current.CurrentPlan)
	assert.Equal(t, "enterprise", current.CurrentPlan.ID)
}

func TestEntitlementStore_CancelWithoutSubscription(t *testing.T) {
	store, feed := newTestStore(storage.NewMemory())
	store.HandleIdentityChange(developer())

	_, err := store.CancelSubscription(context.Background())
	assert.ErrorIs(t, err, entitlementservice.ErrNoActiveSubscription)

	items := feed.List()
	require.NotEmpty(t, items)
	assert.Equal(t, "Cancellation Failed", items[0].Title)
}

func TestEntitlementStore_CancelRevokesImmediately(t *testing.T) {
	kv := storage.NewMemory()
	store, _ := newTestStore(kv)
	store.HandleIdentityChange(developer())

	_, err := store.Subscribe(context.Background(), "premium")
	require.NoError(t, err)

	cancelled, err := store.CancelSubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, cancelled.Status)
	require.NotNil(t, cancelled.EndDate)
	assert.WithinDuration(t, time.Now().Add(models.GracePeriod), *cancelled.EndDate, time.Minute)

	// Доступ гаснет сразу: записанный EndDate на него не влияет.
	assert.False(t, store.IsSubscribed())

	var stored models.Subscription
	require.NoError(t, kv.Get(storage.KeySubscription, &stored))
	assert.Equal(t, models.SubscriptionCancelled, stored.Status)
}

func TestEntitlementStore_IdentityClearedDropsSubscription(t *testing.T) {
	kv := storage.NewMemory()
	store, _ := newTestStore(kv)
	store.HandleIdentityChange(developer())

	_, err := store.Subscribe(context.Background(), "basic")
	require.NoError(t, err)

	store.HandleIdentityChange(nil)

	assert.Nil(t, store.Subscription())
	assert.False(t, store.IsSubscribed())

	var stored models.Subscription
	assert.ErrorIs(t, kv.Get(storage.KeySubscription, &stored), storage.ErrNotFound)
}

func TestEntitlementStore_RestoresOwnSubscriptionOnly(t *testing.T) {
	tests := []struct {
		name        string
		storedSub   *models.Subscription
		wantRestore bool
	}{
		{
			name: "own subscription restored",
			storedSub: &models.Subscription{
				ID: "sub-1", UserID: "user-123", PlanID: "premium",
				Status: models.SubscriptionActive, StartDate: time.Now(),
			},
			wantRestore: true,
		},
		{
			name: "foreign subscription dropped",
			storedSub: &models.Subscription{
				ID: "sub-2", UserID: "someone-else", PlanID: "premium",
				Status: models.SubscriptionActive, StartDate: time.Now(),
			},
			wantRestore: false,
		},
		{
			name:        "nothing stored",
			storedSub:   nil,
			wantRestore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			if tt.storedSub != nil {
				require.NoError(t, kv.Set(storage.KeySubscription, tt.storedSub))
			}

			store, _ := newTestStore(kv)
			assert.True(t, store.Loading())
			store.HandleIdentityChange(developer())

			assert.False(t, store.Loading())
			if tt.wantRestore {
				require.NotNil(t, store.Subscription())
				assert.Equal(t, tt.storedSub.ID, store.Subscription().ID)
			} else {
				assert.Nil(t, store.Subscription())
			}
		})
	}
}

func TestEntitlementStore_RejectsOverlappingOperations(t *testing.T) {
	store, _ := newTestStore(storage.NewMemory())

	// Сигнала о пользователе ещё не было: стор в состоянии загрузки.
	_, err := store.Subscribe(context.Background(), "basic")
	assert.ErrorIs(t, err, entitlementservice.ErrOperationInFlight)

	_, err = store.CancelSubscription(context.Background())
	assert.ErrorIs(t, err, entitlementservice.ErrOperationInFlight)
}
