package js

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/vibedom/fonts"
)

var fontFaceClass *Class

func init() {
	face := func(self any) *fonts.Face {
		return self.(*fonts.Face)
	}
	fontFaceClass = &Class{
		Name: "FontFace",
		Get: map[string]Getter{
			"family": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(face(self).Family)
			},
			"weight": func(c *Context, self any) goja.Value {
				switch w := face(self).Weight; w {
				case 0, 400:
					return c.vm.ToValue("normal")
				case 700:
					return c.vm.ToValue("bold")
				default:
					return c.vm.ToValue(strconv.Itoa(w))
				}
			},
			"style": func(c *Context, self any) goja.Value {
				if face(self).Italic {
					return c.vm.ToValue("italic")
				}
				return c.vm.ToValue("normal")
			},
			"status": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(fontStatus(face(self).State()))
			},
		},
		Call: map[string]Method{
			"load": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				f := face(self)
				f.SelectBestSource(fonts.Description{Family: f.Family, Weight: f.Weight, Italic: f.Italic})
				return c.vm.ToValue(fontStatus(f.State()))
			},
		},
	}
}

// fontStatus maps a load state onto FontFaceLoadStatus.
func fontStatus(s fonts.LoadState) string {
	if s == fonts.NotLoaded {
		return "unloaded"
	}
	return s.String()
}
