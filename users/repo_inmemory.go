package users

import (
	"sort"
	"sync"

	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
)

var _ UserRepo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	users    map[int]*User
	emailIds map[string]int // email to user id
	nextID   int
	lock     sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		users:    make(map[int]*User),
		emailIds: make(map[string]int),
		nextID:   1,
	}
}

func (ur *InMemoryRepo) Upsert(user *User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user.Email = NormalizeEmail(user.Email)
	if user.ID == 0 {
		if id, ok := ur.emailIds[user.Email]; ok {
			user.ID = id
		} else {
			user.ID = ur.nextID
			ur.nextID++
		}
	} else if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}
	if old, ok := ur.users[user.ID]; ok && old.Email != user.Email {
		delete(ur.emailIds, old.Email)
	}
	ur.users[user.ID] = user
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *InMemoryRepo) GetByEmail(email string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return ur.users[id], nil
}

func (ur *InMemoryRepo) GetByID(id int) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (ur *InMemoryRepo) List() ([]*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*User, 0, len(ur.users))
	for _, v := range ur.users {
		userList = append(userList, v)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})
	return userList, nil
}
