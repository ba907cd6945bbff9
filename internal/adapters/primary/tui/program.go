package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Subscriber registers display surfaces with the session
type Subscriber interface {
	Subscribe(surface ports.DisplaySurface) string
	Unsubscribe(id string)
}

// SubscribedSession is a session the terminal can both drive and follow
type SubscribedSession interface {
	Session
	Subscriber
}

// surface forwards session views to a running program in order
type surface struct {
	views chan entities.View
	done  chan struct{}
}

func newSurface() *surface {
	return &surface{
		views: make(chan entities.View, 64),
		done:  make(chan struct{}),
	}
}

// Show implements ports.DisplaySurface
func (s *surface) Show(view entities.View) {
	select {
	case s.views <- view:
	case <-s.done:
	}
}

func (s *surface) pump(p *tea.Program) {
	for {
		select {
		case view := <-s.views:
			p.Send(viewMsg(view))
		case <-s.done:
			return
		}
	}
}

// Run shows the session in the terminal until the user quits or ctx is done
func Run(ctx context.Context, session SubscribedSession, extensions []string, opts ...tea.ProgramOption) error {
	model := NewModel(ctx, session, extensions)
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)
	program := tea.NewProgram(model, opts...)

	s := newSurface()
	id := session.Subscribe(s)
	go s.pump(program)
	defer func() {
		session.Unsubscribe(id)
		close(s.done)
	}()

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
