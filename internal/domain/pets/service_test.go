package pets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-vaccination-history/internal/platform/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu        sync.Mutex
	byID      map[string]Pet
	deleteErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Pet{}
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

type testCleanup struct {
	purged []string
	err    error
}

func (c *testCleanup) PurgePet(ctx context.Context, petID string) error {
	if c.err != nil {
		return c.err
	}
	c.purged = append(c.purged, petID)
	return nil
}

func newTestService(t *testing.T) (*Service, *testRepo, *testCleanup) {
	t.Helper()
	repo := newTestRepo()
	cleanup := &testCleanup{}
	svc := NewService(repo, cleanup, nil)
	svc.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, cleanup
}

func TestCreate_RequiresExplicitSpecies(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", CreateInput{Name: "Firulais"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", CreateInput{Name: "Firulais", Species: "hamster"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.Create(ctx, "u1", CreateInput{Name: " Firulais ", Species: "dog"})
	require.NoError(t, err)
	assert.Equal(t, "Firulais", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, SexUnknown, p.Sex)
	require.NotNil(t, p.Traits.Dog)
	assert.Nil(t, p.Traits.Cat)
}

func TestCreate_RejectsTraitsOfOtherSpecies(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "u1", CreateInput{
		Name:    "Michi",
		Species: "cat",
		Traits:  Traits{Dog: &DogTraits{Tame: true}},
	})
	assert.ErrorIs(t, err, ErrTraitsMismatch)
}

func TestCreate_ValidatesOptionalFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	neg := -1.0
	_, err := svc.Create(ctx, "u1", CreateInput{Name: "A", Species: "bird", WeightKg: &neg})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", CreateInput{Name: "A", Species: "bird", Size: "huge"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	future := calendar.MustDate(2024, time.June, 2)
	_, err = svc.Create(ctx, "u1", CreateInput{Name: "A", Species: "bird", BirthDate: &future})
	assert.ErrorIs(t, err, ErrBirthDateInFuture)

	_, err = svc.Create(ctx, "", CreateInput{Name: "A", Species: "bird"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfile_Patch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	bd := calendar.MustDate(2020, time.March, 1)
	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Michi", Species: "cat", BirthDate: &bd})
	require.NoError(t, err)

	name := "Michi II"
	updated, err := svc.UpdateProfile(ctx, p.ID, "u1", UpdateProfileInput{
		Name:      &name,
		BirthDate: Optional[calendar.Date]{Present: true},
		Traits:    &Traits{Cat: &CatTraits{TrimmedClaws: true, CoatLength: CoatLong}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Michi II", updated.Name)
	assert.Nil(t, updated.BirthDate)
	assert.True(t, updated.Traits.Cat.TrimmedClaws)
	assert.Equal(t, CoatLong, updated.Traits.Cat.CoatLength)

	other := "dog"
	_, err = svc.UpdateProfile(ctx, p.ID, "u1", UpdateProfileInput{Species: &other})
	assert.ErrorIs(t, err, ErrSpeciesImmutable)

	_, err = svc.UpdateProfile(ctx, p.ID, "u2", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProfile(ctx, "missing", "u1", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateProfile(ctx, p.ID, "u1", UpdateProfileInput{Traits: &Traits{Bird: &BirdTraits{}}})
	assert.ErrorIs(t, err, ErrTraitsMismatch)
}

func TestDelete_PurgesVaccinationsAfterPet(t *testing.T) {
	svc, repo, cleanup := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Piolín", Species: "bird"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "u2"), ErrForbidden)
	assert.Empty(t, cleanup.purged)

	require.NoError(t, svc.Delete(ctx, p.ID, "u1"))
	assert.Equal(t, []string{p.ID}, cleanup.purged)

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_KeepsHistoryWhenPetDeleteFails(t *testing.T) {
	svc, repo, cleanup := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	repo.deleteErr = errors.New("db down")
	assert.Error(t, svc.Delete(ctx, p.ID, "u1"))
	assert.Empty(t, cleanup.purged)

	_, err = repo.GetByID(ctx, p.ID)
	assert.NoError(t, err)
}

func TestDelete_ReportsPurgeFailure(t *testing.T) {
	svc, repo, cleanup := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	cleanup.err = errors.New("db down")
	assert.Error(t, svc.Delete(ctx, p.ID, "u1"))

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_BirthDateUsesServiceZone(t *testing.T) {
	// 01:00 UTC del 02/06 sigue siendo 01/06 en UTC-3
	repo := newTestRepo()
	svc := NewService(repo, nil, time.FixedZone("BRT", -3*60*60))
	svc.now = func() time.Time { return time.Date(2024, time.June, 2, 1, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	tomorrow := calendar.MustDate(2024, time.June, 2)
	_, err := svc.Create(ctx, "u1", CreateInput{Name: "A", Species: "bird", BirthDate: &tomorrow})
	assert.ErrorIs(t, err, ErrBirthDateInFuture)

	today := calendar.MustDate(2024, time.June, 1)
	_, err = svc.Create(ctx, "u1", CreateInput{Name: "A", Species: "bird", BirthDate: &today})
	assert.NoError(t, err)
}

func TestOwnerOf(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", CreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	owner, err := svc.OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = svc.OwnerOf(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
