package gopherlua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/hostfuncs"
)

// FromLua converts a Lua value to a capability argument. Numbers become
// float64; the capability's parameter list normalizes them further.
func FromLua(L *lua.LState, lv lua.LValue) (hostfuncs.Value, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LUserData:
		if h, ok := v.Value.(*entities.Handle); ok {
			return h, nil
		}
		return nil, fmt.Errorf("foreign userdata")
	case *lua.LFunction:
		return callback(L, v), nil
	default:
		return nil, fmt.Errorf("%s not accepted", lv.Type())
	}
}

// ToLua converts a capability result to a Lua value.
func ToLua(L *lua.LState, v hostfuncs.Value) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case int64:
		return lua.LNumber(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case *entities.Handle:
		if x == nil {
			return lua.LNil
		}
		return NewHandle(L, x)
	default:
		return lua.LString(fmt.Sprint(x))
	}
}

// NewHandle wraps h in a userdata with the handle metatable.
func NewHandle(L *lua.LState, h *entities.Handle) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(HandleTypeName))
	return ud
}

// callback wraps a Lua function so providers can call it later. It must be
// invoked on the goroutine that owns L.
func callback(L *lua.LState, fn *lua.LFunction) hostfuncs.Callback {
	return func(_ context.Context, args ...hostfuncs.Value) error {
		lvs := make([]lua.LValue, len(args))
		for i, a := range args {
			lvs[i] = ToLua(L, a)
		}
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lvs...)
	}
}

func registerHandleType(L *lua.LState) {
	if _, ok := L.GetTypeMetatable(HandleTypeName).(*lua.LTable); ok {
		return
	}
	mt := L.NewTypeMetatable(HandleTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkHandle(L, 1).String()))
		return 1
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, b := checkHandle(L, 1), checkHandle(L, 2)
		L.Push(lua.LBool(*a == *b))
		return 1
	}))
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		h := checkHandle(L, 1)
		switch L.CheckString(2) {
		case "tag":
			L.Push(lua.LString(h.Tag.String()))
		case "group":
			L.Push(lua.LString(h.Tag.Group.String()))
		case "id":
			L.Push(lua.LNumber(h.ID))
		default:
			L.Push(lua.LNil)
		}
		return 1
	}))
}

func checkHandle(L *lua.LState, n int) *entities.Handle {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(*entities.Handle)
	if !ok {
		L.ArgError(n, "handle expected")
		return nil
	}
	return h
}
