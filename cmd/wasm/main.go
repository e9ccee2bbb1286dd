//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/engine"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

var (
	editor   *engine.Editor
	onChange js.Value
	lastRev  uint64
)

func main() {
	editor = engine.NewEditor()
	onChange = js.Undefined()

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadScene", command(loadScene))
	api.Set("loadSample", command(func([]js.Value) any {
		editor.LoadSample()
		return nil
	}))
	api.Set("pointerDown", command(pointer(editor.PointerDown)))
	api.Set("pointerMove", command(pointer(editor.PointerMove)))
	api.Set("pointerUp", command(pointer(editor.PointerUp)))
	api.Set("keyDown", command(keyDown))
	api.Set("wheel", command(wheel))
	api.Set("setTool", command(setTool))
	api.Set("setShape", command(setShape))
	api.Set("setStyle", command(setStyle))
	api.Set("updateTextDraft", command(func(args []js.Value) any {
		editor.UpdateTextDraft(stringArg(args, 0))
		return nil
	}))
	api.Set("commitText", command(func(args []js.Value) any {
		editor.CommitText(stringArg(args, 0))
		return nil
	}))
	api.Set("cancelText", command(func([]js.Value) any {
		editor.CancelText()
		return nil
	}))
	api.Set("editText", command(func(args []js.Value) any {
		return editor.EditText(stringArg(args, 0))
	}))
	api.Set("select", command(func(args []js.Value) any {
		editor.Select(stringArg(args, 0))
		return nil
	}))
	api.Set("undo", command(func([]js.Value) any { return editor.Undo() }))
	api.Set("redo", command(func([]js.Value) any { return editor.Redo() }))
	api.Set("toggleDarkMode", command(func([]js.Value) any {
		editor.ToggleDarkMode()
		return nil
	}))
	api.Set("copySelected", command(func([]js.Value) any { return editor.CopySelected() }))
	api.Set("deleteSelected", command(func([]js.Value) any { return editor.DeleteSelected() }))
	api.Set("recolorSelected", command(func(args []js.Value) any {
		return editor.RecolorSelected(stringArg(args, 0), stringArg(args, 1))
	}))
	api.Set("resizeSelected", command(func(args []js.Value) any {
		if len(args) < 4 {
			return false
		}
		return editor.ResizeSelected(geom.Rect{
			X: args[0].Float(), Y: args[1].Float(),
			Width: args[2].Float(), Height: args[3].Float(),
		})
	}))
	api.Set("zoomTo", command(func(args []js.Value) any {
		if len(args) < 3 || args[2].Float() <= 0 {
			return nil
		}
		editor.ZoomTo(geom.Pt(args[0].Float(), args[1].Float()), args[2].Float())
		return nil
	}))
	api.Set("zoomToFit", command(func(args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		editor.ZoomToFit(args[0].Float(), args[1].Float())
		return nil
	}))

	// onChange(sceneJSON) runs after every committed change; the page
	// debounces it into a save.
	api.Set("setChangeListener", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 && args[0].Type() == js.TypeFunction {
			onChange = args[0]
		} else {
			onChange = js.Undefined()
		}
		return nil
	}))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(func(this js.Value, args []js.Value) any {
		return toJSON(editor.DrawCommands())
	}))
	api.Set("getState", js.FuncOf(func(this js.Value, args []js.Value) any {
		return toJSON(editor.State())
	}))
	api.Set("getScene", js.FuncOf(func(this js.Value, args []js.Value) any {
		data, err := document.EncodeScene(editor.Snapshot())
		if err != nil {
			return errorResult(err)
		}
		return js.ValueOf(string(data))
	}))
	api.Set("hitTest", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return js.ValueOf("")
		}
		p := editor.View().ToScene(geom.Pt(args[0].Float(), args[1].Float()))
		return js.ValueOf(engine.HitTest(editor.Scene(), p, engine.SelectRadius))
	}))
	api.Set("getRevision", js.FuncOf(func(this js.Value, args []js.Value) any {
		return js.ValueOf(float64(editor.Revision()))
	}))

	js.Global().Set("pensilcEditor", api)
	js.Global().Set("pensilcWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// command wraps an editor call and notifies the change listener when the
// committed scene moved.
func command(fn func(args []js.Value) any) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		result := fn(args)
		if rev := editor.Revision(); rev != lastRev {
			lastRev = rev
			notifyChange()
		}
		if result == nil {
			return nil
		}
		if v, ok := result.(js.Value); ok {
			return v
		}
		return js.ValueOf(result)
	})
}

func notifyChange() {
	if onChange.Type() != js.TypeFunction {
		return
	}
	data, err := document.EncodeScene(editor.Snapshot())
	if err != nil {
		return
	}
	onChange.Invoke(string(data))
}

func pointer(fn func(engine.PointerEvent)) func([]js.Value) any {
	return func(args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		ev := engine.PointerEvent{X: args[0].Float(), Y: args[1].Float()}
		if len(args) > 2 {
			ev.Button = args[2].Int()
		}
		if len(args) > 3 {
			ev.Time = int64(args[3].Float())
		}
		fn(ev)
		return nil
	}
}

func loadScene(args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing scene JSON"})
	}
	sd, report, err := document.DecodeScene([]byte(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	editor.Load(sd)
	lastRev = editor.Revision()
	return js.ValueOf(map[string]any{"ok": true, "skipped": len(report.Skipped)})
}

func keyDown(args []js.Value) any {
	editor.KeyDown(stringArg(args, 0))
	return nil
}

func wheel(args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	editor.Wheel(geom.Pt(args[0].Float(), args[1].Float()), args[2].Float())
	return nil
}

func setTool(args []js.Value) any {
	return editor.SetTool(engine.ToolMode(stringArg(args, 0)))
}

func setShape(args []js.Value) any {
	return editor.SetShape(engine.ShapeKind(stringArg(args, 0)))
}

func setStyle(args []js.Value) any {
	var s engine.StyleSettings
	if err := json.Unmarshal([]byte(stringArg(args, 0)), &s); err != nil {
		return errorResult(err)
	}
	editor.SetStyle(s)
	return nil
}

func stringArg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func errorResult(err error) js.Value {
	return js.ValueOf(map[string]any{"error": err.Error()})
}
