package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/plume/internal/client/client"
	"github.com/dmitrijs2005/plume/internal/client/config"
	"github.com/dmitrijs2005/plume/internal/client/models"
	"github.com/dmitrijs2005/plume/internal/client/repositories/session"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/filex"
)

// App carries what every command needs: the backend client, the stored
// session and the terminal streams.
type App struct {
	config   *config.Config
	client   client.Client
	sessions session.Repository
	session  *models.Session
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp connects to the server named by c and opens the local session
// database under c.DataDir.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dir, err := filex.EnsureSubDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "plume.db"))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewPlumeClient(c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, client: apiClient, sessions: session.NewSQLiteRepository(db), db: db}, nil
}

// restoreSession loads the stored login for the configured server, if any.
func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.sessions.Get(ctx, a.config.ServerEndpointAddr)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	a.session = s
	a.client.SetAccessToken(s.AccessToken)
	return nil
}

func (a *App) saveSession(ctx context.Context, userID int64, pseudo, role, token string) error {
	s := &models.Session{
		Server:      a.config.ServerEndpointAddr,
		UserID:      userID,
		Pseudo:      pseudo,
		Role:        role,
		AccessToken: token,
		SavedAt:     time.Now(),
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return err
	}
	a.session = s
	return nil
}

func (a *App) clearSession(ctx context.Context) error {
	a.session = nil
	a.client.SetAccessToken("")
	return a.sessions.Delete(ctx, a.config.ServerEndpointAddr)
}

func (a *App) requireLogin() error {
	if a.session == nil {
		return client.ErrNotLoggedIn
	}
	return nil
}

func (a *App) Close() error {
	err := a.client.Close()
	if a.db != nil {
		err = errors.Join(err, a.db.Close())
	}
	return err
}
