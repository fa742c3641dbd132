//go:build linux

package platform

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

const maxTreeDepth = 64

type x11WindowSystem struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func newWindowSystem() (WindowSystem, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, errors.Wrap(ErrUnsupported, "no X11 display")
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "connect to X11")
	}
	setup := xproto.Setup(conn)
	return &x11WindowSystem{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom),
	}, nil
}

func (system *x11WindowSystem) ListWindows() ([]WindowInfo, error) {
	system.mu.Lock()
	defer system.mu.Unlock()

	reply, err := system.propertyLocked(system.root, "_NET_CLIENT_LIST")
	if err != nil {
		return nil, errors.Wrap(err, "read client list")
	}

	ids := windowList(reply.Value)
	windowsList := make([]WindowInfo, 0, len(ids))
	for _, id := range ids {
		title := system.titleLocked(id)
		if strings.TrimSpace(title) == "" {
			continue
		}
		windowsList = append(windowsList, WindowInfo{
			ID:         WindowID(id),
			Title:      title,
			Executable: system.executableLocked(id),
		})
	}
	return windowsList, nil
}

func (system *x11WindowSystem) ForegroundWindow() (WindowID, error) {
	system.mu.Lock()
	defer system.mu.Unlock()

	reply, err := system.propertyLocked(system.root, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return 0, errors.Wrap(err, "read active window")
	}
	ids := windowList(reply.Value)
	if len(ids) == 0 {
		return 0, nil
	}
	return WindowID(ids[0]), nil
}

func (system *x11WindowSystem) WindowAt(x, y int) (WindowID, error) {
	system.mu.Lock()
	defer system.mu.Unlock()

	current := system.root
	srcX, srcY := int16(x), int16(y)
	for depth := 0; depth < maxTreeDepth; depth++ {
		reply, err := xproto.TranslateCoordinates(system.conn, system.root, current, srcX, srcY).Reply()
		if err != nil {
			return 0, errors.Wrap(err, "translate coordinates")
		}
		if reply.Child == xproto.WindowNone {
			break
		}
		current = reply.Child
	}
	if current == system.root {
		return 0, nil
	}
	return WindowID(current), nil
}

func (system *x11WindowSystem) PointerPosition() (int, int, error) {
	system.mu.Lock()
	defer system.mu.Unlock()

	reply, err := xproto.QueryPointer(system.conn, system.root).Reply()
	if err != nil {
		return 0, 0, errors.Wrap(err, "query pointer")
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (system *x11WindowSystem) SameTree(child, target WindowID) bool {
	if child == 0 || target == 0 {
		return false
	}
	if child == target {
		return true
	}

	system.mu.Lock()
	defer system.mu.Unlock()

	childChain := system.ancestorsLocked(xproto.Window(child))
	for _, ancestor := range childChain {
		if WindowID(ancestor) == target {
			return true
		}
	}
	targetChain := system.ancestorsLocked(xproto.Window(target))
	if len(childChain) == 0 || len(targetChain) == 0 {
		return false
	}
	// Window managers reparent clients into frames, so the pointer usually
	// lands on the frame while the client list names the inner window.
	childTop := childChain[len(childChain)-1]
	for _, ancestor := range targetChain {
		if ancestor == childTop {
			return true
		}
	}
	return targetChain[len(targetChain)-1] == childTop
}

func (system *x11WindowSystem) WindowPosition(id WindowID) (int, int, error) {
	system.mu.Lock()
	defer system.mu.Unlock()

	reply, err := xproto.TranslateCoordinates(system.conn, xproto.Window(id), system.root, 0, 0).Reply()
	if err != nil {
		return 0, 0, errors.Wrap(err, "translate window origin")
	}
	return int(reply.DstX), int(reply.DstY), nil
}

// MoveWindow asks the window manager to place the client at root coordinates.
func (system *x11WindowSystem) MoveWindow(id WindowID, x, y int) error {
	system.mu.Lock()
	defer system.mu.Unlock()

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	values := []uint32{uint32(int32(x)), uint32(int32(y))}
	if err := xproto.ConfigureWindowChecked(system.conn, xproto.Window(id), mask, values).Check(); err != nil {
		return errors.Wrap(err, "configure window")
	}
	return nil
}

func (system *x11WindowSystem) Close() error {
	system.mu.Lock()
	defer system.mu.Unlock()
	if system.conn != nil {
		system.conn.Close()
		system.conn = nil
	}
	return nil
}

// ancestorsLocked returns the window followed by its parents, excluding the root.
func (system *x11WindowSystem) ancestorsLocked(window xproto.Window) []xproto.Window {
	chain := []xproto.Window{window}
	current := window
	for depth := 0; depth < maxTreeDepth; depth++ {
		reply, err := xproto.QueryTree(system.conn, current).Reply()
		if err != nil || reply.Parent == xproto.WindowNone || reply.Parent == system.root {
			break
		}
		current = reply.Parent
		chain = append(chain, current)
	}
	return chain
}

func (system *x11WindowSystem) titleLocked(window xproto.Window) string {
	if reply, err := system.propertyLocked(window, "_NET_WM_NAME"); err == nil && len(reply.Value) > 0 {
		return string(reply.Value)
	}
	if reply, err := system.propertyLocked(window, "WM_NAME"); err == nil {
		return string(reply.Value)
	}
	return ""
}

func (system *x11WindowSystem) executableLocked(window xproto.Window) string {
	reply, err := system.propertyLocked(window, "_NET_WM_PID")
	if err != nil || len(reply.Value) < 4 {
		return ""
	}
	pid := xgb.Get32(reply.Value)
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(comm)))
}

func (system *x11WindowSystem) propertyLocked(window xproto.Window, name string) (*xproto.GetPropertyReply, error) {
	atom, err := system.atomLocked(name)
	if err != nil {
		return nil, err
	}
	return xproto.GetProperty(system.conn, false, window, atom, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
}

func (system *x11WindowSystem) atomLocked(name string) (xproto.Atom, error) {
	if atom, ok := system.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(system.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, errors.Wrapf(err, "intern atom %s", name)
	}
	if reply.Atom == xproto.AtomNone {
		return 0, errors.Errorf("atom %s not defined", name)
	}
	system.atoms[name] = reply.Atom
	return reply.Atom, nil
}

func windowList(value []byte) []xproto.Window {
	windowsList := make([]xproto.Window, 0, len(value)/4)
	for offset := 0; offset+4 <= len(value); offset += 4 {
		windowsList = append(windowsList, xproto.Window(xgb.Get32(value[offset:])))
	}
	return windowsList
}
