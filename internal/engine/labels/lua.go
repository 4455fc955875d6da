package labels

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaFunction is the global the script must define. It receives the 0-based
// column position and returns the label.
const LuaFunction = "label"

// ErrLuaClosed is returned after Close.
var ErrLuaClosed = errors.New("lua labeler is closed")

// Lua is a Labeler backed by a Lua script.
//
// gopher-lua's LState is not goroutine-safe; calls are serialized by mu.
type Lua struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewLua compiles script and checks that it defines the label function.
func NewLua(script string) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading label script: %w", err)
	}
	if fn := L.GetGlobal(LuaFunction); fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("label script must define function %q (got %s)", LuaFunction, fn.Type())
	}
	return &Lua{L: L}, nil
}

// openSafeLibraries opens only the libraries a label script needs.
// io, os, debug and package are left out.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Label calls the script's label function.
func (l *Lua) Label(column int) (label string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return "", ErrLuaClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := l.L.GetTop()
	defer l.L.SetTop(top)

	if err := l.L.CallByParam(lua.P{
		Fn:      l.L.GetGlobal(LuaFunction),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(column)); err != nil {
		return "", fmt.Errorf("label(%d): %w", column, err)
	}

	ret := l.L.Get(-1)
	switch ret.Type() {
	case lua.LTString, lua.LTNumber:
		return ret.String(), nil
	default:
		return "", fmt.Errorf("label(%d) returned %s, want string", column, ret.Type())
	}
}

// Close releases the Lua state. It is safe to call more than once.
func (l *Lua) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.L.Close()
		l.closed = true
	}
}
