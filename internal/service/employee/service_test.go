package employee

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/validator"
)

// fakeUserRepo keeps users in memory, keyed by ID. ListDirectReports mirrors
// the SQL ordering by (last name, first name).
type fakeUserRepo struct {
	byID   map[string]user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]user.User{}}
}

func (f *fakeUserRepo) add(u user.User) user.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailExists
		}
		if existing.CNP == u.CNP {
			return user.User{}, user.ErrCNPExists
		}
	}
	f.nextID++
	u.ID = string(rune('a' + f.nextID))
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsActive = active
	f.byID[id] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) {
	users := make([]user.User, 0, len(f.byID))
	for _, u := range f.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) ListDirectReports(_ context.Context, managerID string, activeOnly bool) ([]user.User, error) {
	var reports []user.User
	for _, u := range f.byID {
		if u.ManagerID == nil || *u.ManagerID != managerID {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		reports = append(reports, u)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].LastName != reports[j].LastName {
			return reports[i].LastName < reports[j].LastName
		}
		return reports[i].FirstName < reports[j].FirstName
	})
	return reports, nil
}

func ptr(s string) *string { return &s }

func seedUser(repo *fakeUserRepo, id, first, last string, isManager bool, managerID *string) user.User {
	return repo.add(user.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
		IsManager: isManager,
		ManagerID: managerID,
		IsActive:  true,
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	validReq := user.CreateUserRequest{
		FirstName: "Maria",
		LastName:  "Popescu",
		CNP:       "1234567890123",
		Email:     "maria@example.com",
		Password:  "sup3rsecret",
	}

	t.Run("creator becomes manager and password is hashed", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(repo, "m1", "Radu", "Ionescu", true, nil)
		svc := NewEmployeeService(repo)

		resp, err := svc.Create(ctx, "m1", validReq)
		require.NoError(t, err)

		require.NotNil(t, resp.ManagerID)
		assert.Equal(t, "m1", *resp.ManagerID)
		assert.True(t, resp.IsActive)
		assert.Equal(t, "Maria Popescu", resp.FullName)

		stored, err := repo.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "sup3rsecret", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("sup3rsecret")))
	})

	t.Run("seeding a top manager leaves manager unset", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewEmployeeService(repo)

		req := validReq
		req.IsManager = true
		resp, err := svc.Create(ctx, "", req)
		require.NoError(t, err)
		assert.Nil(t, resp.ManagerID)
	})

	t.Run("invalid request is rejected", func(t *testing.T) {
		svc := NewEmployeeService(newFakeUserRepo())

		req := validReq
		req.CNP = "123"
		_, err := svc.Create(ctx, "m1", req)
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})

	t.Run("duplicate email surfaces repository error", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.add(user.User{ID: "x", Email: "maria@example.com", CNP: "9999999999999", IsActive: true})
		svc := NewEmployeeService(repo)

		_, err := svc.Create(ctx, "", validReq)
		require.ErrorIs(t, err, user.ErrEmailExists)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("self manager is rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(repo, "u1", "Maria", "Popescu", false, nil)
		svc := NewEmployeeService(repo)

		_, err := svc.Update(ctx, "u1", user.UpdateUserRequest{ManagerID: ptr("u1")})
		require.ErrorIs(t, err, user.ErrSelfManager)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(repo, "u1", "Maria", "Popescu", false, nil)
		svc := NewEmployeeService(repo)

		resp, err := svc.Update(ctx, "u1", user.UpdateUserRequest{LastName: ptr("Ionescu")})
		require.NoError(t, err)
		assert.Equal(t, "Maria", resp.FirstName)
		assert.Equal(t, "Ionescu", resp.LastName)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(repo, "u1", "Maria", "Popescu", false, nil)
	svc := NewEmployeeService(repo)

	require.NoError(t, svc.Deactivate(ctx, "u1"))
	stored, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	require.ErrorIs(t, svc.Deactivate(ctx, "missing"), user.ErrUserNotFound)
}

func TestResolveTeam(t *testing.T) {
	ctx := context.Background()

	// m1 manages u1 and m2; m2 manages u2 and u3; u3 is inactive.
	buildTree := func() (*fakeUserRepo, user.User) {
		repo := newFakeUserRepo()
		m1 := seedUser(repo, "m1", "Radu", "Ionescu", true, nil)
		seedUser(repo, "u1", "Maria", "Popescu", false, ptr("m1"))
		seedUser(repo, "m2", "Ana", "Vasile", true, ptr("m1"))
		seedUser(repo, "u2", "Ion", "Georgescu", false, ptr("m2"))
		u3 := seedUser(repo, "u3", "Dan", "Marin", false, ptr("m2"))
		u3.IsActive = false
		repo.add(u3)
		return repo, m1
	}

	ids := func(team []user.User) []string {
		out := make([]string, 0, len(team))
		for _, u := range team {
			out = append(out, u.ID)
		}
		sort.Strings(out)
		return out
	}

	t.Run("direct reports only", func(t *testing.T) {
		repo, m1 := buildTree()
		svc := NewEmployeeService(repo)

		team, err := svc.ResolveTeam(ctx, m1, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"m2", "u1"}, ids(team))
	})

	t.Run("indirect expansion skips inactive users", func(t *testing.T) {
		repo, m1 := buildTree()
		svc := NewEmployeeService(repo)

		team, err := svc.ResolveTeam(ctx, m1, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"m2", "u1", "u2"}, ids(team))
	})

	t.Run("non manager resolves to empty team", func(t *testing.T) {
		repo, _ := buildTree()
		svc := NewEmployeeService(repo)

		u1, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		team, err := svc.ResolveTeam(ctx, u1, true)
		require.NoError(t, err)
		assert.Empty(t, team)
	})

	t.Run("manager cycle terminates", func(t *testing.T) {
		repo := newFakeUserRepo()
		a := seedUser(repo, "a", "A", "A", true, ptr("b"))
		seedUser(repo, "b", "B", "B", true, ptr("a"))
		svc := NewEmployeeService(repo)

		team, err := svc.ResolveTeam(ctx, a, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids(team))
	})
}

func TestCanManagerAccess(t *testing.T) {
	ctx := context.Background()

	repo := newFakeUserRepo()
	m1 := seedUser(repo, "m1", "Radu", "Ionescu", true, nil)
	m2 := seedUser(repo, "m2", "Ana", "Vasile", true, ptr("m1"))
	u2 := seedUser(repo, "u2", "Ion", "Georgescu", false, ptr("m2"))
	outsider := seedUser(repo, "o1", "Dan", "Marin", true, nil)
	svc := NewEmployeeService(repo)

	t.Run("self access", func(t *testing.T) {
		ok, err := svc.CanManagerAccess(ctx, u2, u2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("direct manager", func(t *testing.T) {
		ok, err := svc.CanManagerAccess(ctx, m2, u2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("transitive manager", func(t *testing.T) {
		ok, err := svc.CanManagerAccess(ctx, m1, u2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unrelated manager is denied", func(t *testing.T) {
		ok, err := svc.CanManagerAccess(ctx, outsider, u2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("subordinate cannot access manager", func(t *testing.T) {
		ok, err := svc.CanManagerAccess(ctx, u2, m2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("manager cycle terminates with denial", func(t *testing.T) {
		cycleRepo := newFakeUserRepo()
		a := seedUser(cycleRepo, "a", "A", "A", true, ptr("b"))
		seedUser(cycleRepo, "b", "B", "B", true, ptr("a"))
		other := seedUser(cycleRepo, "c", "C", "C", true, nil)
		cycleSvc := NewEmployeeService(cycleRepo)

		ok, err := cycleSvc.CanManagerAccess(ctx, other, a)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
