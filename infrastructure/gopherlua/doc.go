// Package gopherlua publishes a capability registry into a gopher-lua
// interpreter and converts values across the boundary.
//
// Each capability becomes a Lua function in a plain table keyed by the
// capability's literal name. Foreign handles travel as userdata carrying an
// *entities.Handle; scripts can print and compare them but never reach the
// native object.
package gopherlua
