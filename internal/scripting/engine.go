package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rpc21/vooga-salad-sub000/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrUnknownFunction is returned when a rule names a function no script
// defines.
var ErrUnknownFunction = errors.New("lua function not found")

// Engine wraps a single gopher-lua VM for rule scripts.
// Single-goroutine access only (engine Update).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir.
// Scripts in lib/ load first so rule scripts can use them.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(filepath.Join(scriptsDir, "lib")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lib scripts: %w", err)
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load rule scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Number calls fn(current, self) and returns its numeric result.
func (e *Engine) Number(fn string, self *ecs.Entity, current float64) (float64, error) {
	ret, err := e.call(fn, self, current)
	if err != nil {
		return current, err
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return current, fmt.Errorf("lua %s returned %s, want number", fn, ret.Type())
	}
	return float64(n), nil
}

// Predicate calls fn(current, self) and returns its truthiness.
func (e *Engine) Predicate(fn string, self *ecs.Entity, current float64) (bool, error) {
	ret, err := e.call(fn, self, current)
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

func (e *Engine) call(name string, self *ecs.Entity, current float64) (lua.LValue, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(current), e.entityTable(self)); err != nil {
		e.log.Debug("lua call error", zap.String("func", name), zap.Error(err))
		return lua.LNil, fmt.Errorf("lua %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, nil
}

// entityTable exposes an entity's scalar components to Lua, keyed by kind
// name. Scripts read it; writes are not copied back.
func (e *Engine) entityTable(self *ecs.Entity) *lua.LTable {
	t := e.vm.NewTable()
	if self == nil {
		return t
	}
	for _, k := range self.Kinds() {
		switch k.Info().Value {
		case ecs.ValueNumber:
			t.RawSetString(k.String(), lua.LNumber(self.Number(k)))
		case ecs.ValueString:
			t.RawSetString(k.String(), lua.LString(self.Text(k)))
		case ecs.ValueBool:
			t.RawSetString(k.String(), lua.LBool(self.Bool(k)))
		}
	}
	return t
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
