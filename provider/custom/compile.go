package custom

import (
	"sync"

	"github.com/clipharbor/clipharbor/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

type compiled struct {
	size  int64
	mtime int64
	proto *lua.FunctionProto
}

var bytecodeCache sync.Map

// compileAndRun executes the script at path in L, reusing the compiled
// prototype while the file is unchanged.
func compileAndRun(L *lua.LState, path string) error {
	proto, err := compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func compile(path string) (*lua.FunctionProto, error) {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		return nil, err
	}

	if cached, ok := bytecodeCache.Load(path); ok {
		c := cached.(compiled)
		if c.size == info.Size() && c.mtime == info.ModTime().UnixNano() {
			return c.proto, nil
		}
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, compiled{
		size:  info.Size(),
		mtime: info.ModTime().UnixNano(),
		proto: proto,
	})

	return proto, nil
}
