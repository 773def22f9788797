package chat

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linkup/infrastructure"
	"linkup/internal/broadcast"
	"linkup/internal/database"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*database.User
}

func newFakeUserRepo(users ...*database.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*database.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, u *database.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*database.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrUserNotFound, ID: id}
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*database.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrUserNotFound, ID: email}
}

func (r *fakeUserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, search string) ([]*database.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*database.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *database.User) error {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastActivity = at
	}
	return nil
}

// fakeChatRepo mirrors the repository contract in memory, including the
// unique-pair guarantee under concurrent CreateOrGet.
type fakeChatRepo struct {
	mu       sync.Mutex
	users    *fakeUserRepo
	chats    map[string]*database.Chat
	byPair   map[string]string
	messages map[string][]*database.Message
}

func newFakeChatRepo(users *fakeUserRepo) *fakeChatRepo {
	return &fakeChatRepo{
		users:    users,
		chats:    make(map[string]*database.Chat),
		byPair:   make(map[string]string),
		messages: make(map[string][]*database.Message),
	}
}

func (r *fakeChatRepo) CreateOrGet(ctx context.Context, userA, userB string) (*database.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pairKey := database.PairKey(userA, userB)
	if id, ok := r.byPair[pairKey]; ok {
		return r.chats[id], false, nil
	}

	memberIDs := []string{userA, userB}
	if userA == userB {
		memberIDs = memberIDs[:1]
	}
	var members []database.User
	for _, id := range memberIDs {
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		members = append(members, *u)
	}

	chat := &database.Chat{
		ID:        uuid.NewString(),
		PairKey:   pairKey,
		Users:     members,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.chats[chat.ID] = chat
	r.byPair[pairKey] = chat.ID
	return chat, true, nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, chatID string) (*database.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrChatNotFound, ID: chatID}
	}
	return chat, nil
}

func (r *fakeChatRepo) ListForUser(ctx context.Context, userID string) ([]*database.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*database.Chat
	for _, chat := range r.chats {
		for _, member := range chat.Users {
			if member.ID == userID {
				out = append(out, chat)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeChatRepo) Messages(ctx context.Context, chatID string) ([]*database.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*database.Message(nil), r.messages[chatID]...), nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, msg *database.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()
	r.messages[msg.ChatID] = append(r.messages[msg.ChatID], msg)
	if chat, ok := r.chats[msg.ChatID]; ok {
		chat.LastMessage = msg.Content
		chat.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeChatRepo) MarkUnreadAsRead(ctx context.Context, chatID, excludeSender string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked int64
	for _, msg := range r.messages[chatID] {
		if msg.SenderID != excludeSender && !msg.IsRead {
			msg.IsRead = true
			marked++
		}
	}
	return marked, nil
}

type published struct {
	group broadcast.GroupID
	event broadcast.Event
}

type fakeRouter struct {
	mu     sync.Mutex
	events []published
}

func (r *fakeRouter) Join(group broadcast.GroupID, sub broadcast.Subscriber)  {}
func (r *fakeRouter) Leave(group broadcast.GroupID, sub broadcast.Subscriber) {}

func (r *fakeRouter) Publish(group broadcast.GroupID, event broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{group: group, event: event})
}

func (r *fakeRouter) recorded() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

func testUser(id, first, last string) *database.User {
	return &database.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
	}
}

func newTestService(users ...*database.User) (*Service, *fakeChatRepo, *fakeRouter) {
	userRepo := newFakeUserRepo(users...)
	chatRepo := newFakeChatRepo(userRepo)
	router := &fakeRouter{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(chatRepo, userRepo, router, log), chatRepo, router
}

func TestCreateOrGetChatReturnsExisting(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	first, isNew, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)
	req.True(isNew)
	req.Len(first.Users, 2)

	// Same pair in either order resolves to the same chat.
	second, isNew, err := svc.CreateOrGetChat(ctx, "b", "a")
	req.NoError(err)
	req.False(isNew)
	req.Equal(first.ID, second.ID)
}

func TestCreateOrGetChatConcurrentPairYieldsOneChat(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	const callers = 20
	ids := make(chan string, callers)
	created := make(chan bool, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chat, isNew, err := svc.CreateOrGetChat(ctx, "a", "b")
			if err != nil {
				errs <- err
				return
			}
			ids <- chat.ID
			created <- isNew
		}()
	}
	wg.Wait()
	close(ids)
	close(created)
	close(errs)

	for err := range errs {
		req.NoError(err)
	}

	unique := map[string]struct{}{}
	for id := range ids {
		unique[id] = struct{}{}
	}
	req.Len(unique, 1)

	newCount := 0
	for isNew := range created {
		if isNew {
			newCount++
		}
	}
	req.Equal(1, newCount)
}

func TestCreateOrGetChatValidatesContact(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"))
	ctx := context.Background()

	_, _, err := svc.CreateOrGetChat(ctx, "a", "")
	req.True(infrastructure.IsValidation(err))

	_, _, err = svc.CreateOrGetChat(ctx, "a", "missing")
	req.True(infrastructure.IsNotFound(err))
}

func TestCreateOrGetChatAllowsSelfChat(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"))

	chat, isNew, err := svc.CreateOrGetChat(context.Background(), "a", "a")
	req.NoError(err)
	req.True(isNew)
	req.Len(chat.Users, 1)
}

func TestPostMessagePersistsThenPublishesToBothGroups(t *testing.T) {
	req := require.New(t)
	svc, repo, router := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)

	msg, err := svc.PostMessage(ctx, chat.ID, "a", "hi")
	req.NoError(err)
	req.Equal("hi", msg.Content)
	req.False(msg.IsRead)
	req.Equal("a", msg.Sender.ID)

	stored, err := repo.GetByID(ctx, chat.ID)
	req.NoError(err)
	req.Equal("hi", stored.LastMessage)

	events := router.recorded()
	req.Len(events, 2)
	req.Equal(broadcast.ChatGroup(chat.ID), events[0].group)
	req.Equal(broadcast.Home(), events[1].group)
	for _, p := range events {
		req.Equal(broadcast.EventNewMessage, p.event.Kind)
		req.Equal(chat.ID, p.event.ChatID)
		req.Equal("hi", p.event.Message)
	}
}

func TestPostMessageRejectsNonMember(t *testing.T) {
	req := require.New(t)
	svc, repo, router := newTestService(
		testUser("a", "Amal", "Haddad"),
		testUser("b", "Basma", "Odeh"),
		testUser("outsider", "Omar", "Nasser"),
	)
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)

	_, err = svc.PostMessage(ctx, chat.ID, "outsider", "let me in")
	req.True(infrastructure.IsAuthorization(err))

	// Refused outright: nothing persisted, nothing broadcast.
	messages, _ := repo.Messages(ctx, chat.ID)
	req.Empty(messages)
	req.Empty(router.recorded())
}

func TestPostMessageRejectsEmptyContent(t *testing.T) {
	req := require.New(t)
	svc, _, router := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err = svc.PostMessage(ctx, chat.ID, "a", content)
		req.True(infrastructure.IsValidation(err))
	}
	req.Empty(router.recorded())
}

func TestPostMessageUnknownChat(t *testing.T) {
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"))
	_, err := svc.PostMessage(context.Background(), "no-such-chat", "a", "hi")
	require.True(t, infrastructure.IsNotFound(err))
}

func TestMarkReadMarksOnlyOthersMessages(t *testing.T) {
	req := require.New(t)
	svc, repo, router := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)

	_, err = svc.PostMessage(ctx, chat.ID, "a", "from a")
	req.NoError(err)
	_, err = svc.PostMessage(ctx, chat.ID, "b", "from b")
	req.NoError(err)

	marked, err := svc.MarkRead(ctx, chat.ID, "a")
	req.NoError(err)
	req.EqualValues(1, marked)

	messages, _ := repo.Messages(ctx, chat.ID)
	for _, msg := range messages {
		if msg.SenderID == "b" {
			req.True(msg.IsRead)
		} else {
			req.False(msg.IsRead, "own message must stay unread for the sender")
		}
	}

	// mark_all_as_read goes to the chat group only, never home.
	var markEvents []published
	for _, p := range router.recorded() {
		if p.event.Kind == broadcast.EventMarkAllAsRead {
			markEvents = append(markEvents, p)
		}
	}
	req.Len(markEvents, 1)
	req.Equal(broadcast.ChatGroup(chat.ID), markEvents[0].group)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	req := require.New(t)
	svc, repo, _ := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)
	_, err = svc.PostMessage(ctx, chat.ID, "b", "unread")
	req.NoError(err)

	first, err := svc.MarkRead(ctx, chat.ID, "a")
	req.NoError(err)
	req.EqualValues(1, first)

	second, err := svc.MarkRead(ctx, chat.ID, "a")
	req.NoError(err)
	req.Zero(second)

	// Read state never reverts.
	messages, _ := repo.Messages(ctx, chat.ID)
	req.True(messages[0].IsRead)
}

func TestMarkReadRejectsNonMember(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(
		testUser("a", "Amal", "Haddad"),
		testUser("b", "Basma", "Odeh"),
		testUser("outsider", "Omar", "Nasser"),
	)
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)

	_, err = svc.MarkRead(ctx, chat.ID, "outsider")
	req.True(infrastructure.IsAuthorization(err))
}

func TestListMessagesTagsRelativeToRequester(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(testUser("a", "Amal", "Haddad"), testUser("b", "Basma", "Odeh"))
	ctx := context.Background()

	chat, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)
	_, err = svc.PostMessage(ctx, chat.ID, "a", "hello")
	req.NoError(err)
	_, err = svc.PostMessage(ctx, chat.ID, "b", "hey")
	req.NoError(err)
	_, err = svc.MarkRead(ctx, chat.ID, "b")
	req.NoError(err)

	views, err := svc.ListMessages(ctx, chat.ID, "a")
	req.NoError(err)
	req.Len(views, 2)

	req.True(views[0].IsFromCurrentUser)
	req.Equal(StatusRead, views[0].Status)
	req.False(views[1].IsFromCurrentUser)
	req.Equal(StatusSent, views[1].Status)

	_, err = svc.ListMessages(ctx, chat.ID, "outsider")
	req.Error(err)
}

func TestListChatsReturnsOnlyRequestersChats(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(
		testUser("a", "Amal", "Haddad"),
		testUser("b", "Basma", "Odeh"),
		testUser("c", "Chris", "Mansour"),
	)
	ctx := context.Background()

	ab, _, err := svc.CreateOrGetChat(ctx, "a", "b")
	req.NoError(err)
	_, _, err = svc.CreateOrGetChat(ctx, "b", "c")
	req.NoError(err)

	chats, err := svc.ListChats(ctx, "a")
	req.NoError(err)
	req.Len(chats, 1)
	req.Equal(ab.ID, chats[0].ID)
	req.Equal("Basma Odeh", chats[0].ChatName)
}
