package jsconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnana997/cafetheme/pkg/theme"
)

// decoder maps an evaluated config object onto theme.Config.
type decoder struct {
	ignored []string
}

func (d *decoder) ignore(path string) {
	d.ignored = append(d.ignored, path)
}

func typeError(path string, want Kind, got Value) error {
	return fmt.Errorf("%s: expected %s, got %s", path, want, got.Kind)
}

func (d *decoder) config(v Value) (*theme.Config, error) {
	cfg := &theme.Config{}
	cfg.Normalize()

	for _, f := range v.Fields {
		var err error
		switch f.Key {
		case theme.KeyContent:
			err = d.content(cfg, f.Value)
		case theme.KeyTheme:
			err = d.theme(cfg, f.Value)
		case theme.KeyPlugins:
			err = d.plugins(cfg, f.Value)
		default:
			d.ignore(f.Key)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (d *decoder) content(cfg *theme.Config, v Value) error {
	files := v
	if v.Kind == KindObject {
		// content: { files: [...], extract: ..., transform: ... }
		var ok bool
		files, ok = v.Get("files")
		if !ok {
			return fmt.Errorf("content: object form has no files key")
		}
		for _, f := range v.Fields {
			if f.Key != "files" {
				d.ignore("content." + f.Key)
			}
		}
	}
	if files.Kind != KindArray {
		return typeError("content", KindArray, files)
	}
	for i, item := range files.Items {
		if item.Kind != KindString {
			// raw-content objects ({raw: '...'}) and computed paths
			d.ignore("content[" + strconv.Itoa(i) + "]")
			continue
		}
		cfg.Content = append(cfg.Content, theme.GlobPattern(item.Str))
	}
	return nil
}

func (d *decoder) theme(cfg *theme.Config, v Value) error {
	if v.Kind != KindObject {
		return typeError("theme", KindObject, v)
	}
	for _, f := range v.Fields {
		if f.Key != "extend" {
			// overrides replace engine defaults; only extensions are modeled
			d.ignore("theme." + f.Key)
			continue
		}
		if f.Value.Kind != KindObject {
			return typeError("theme.extend", KindObject, f.Value)
		}
		for _, ext := range f.Value.Fields {
			path := "theme.extend." + ext.Key
			var err error
			switch ext.Key {
			case "colors":
				err = d.colors(cfg.Theme.Extend.Colors, ext.Value, path, "")
			case "fontFamily":
				err = d.fontFamily(cfg.Theme.Extend.FontFamily, ext.Value, path)
			case "maxWidth":
				err = d.maxWidth(cfg.Theme.Extend.MaxWidth, ext.Value, path)
			default:
				d.ignore(path)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// colors flattens nested palettes: {cafe: {brown: x, DEFAULT: y}} becomes
// cafe-brown=x and cafe=y.
func (d *decoder) colors(out map[string]string, v Value, path, prefix string) error {
	if v.Kind != KindObject {
		return typeError(path, KindObject, v)
	}
	for _, f := range v.Fields {
		name := prefix + f.Key
		if f.Key == "DEFAULT" && prefix != "" {
			name = strings.TrimSuffix(prefix, "-")
		}
		switch f.Value.Kind {
		case KindString:
			out[name] = f.Value.Str
		case KindObject:
			if err := d.colors(out, f.Value, path+"."+f.Key, name+"-"); err != nil {
				return err
			}
		default:
			d.ignore(path + "." + f.Key)
		}
	}
	return nil
}

func (d *decoder) fontFamily(out map[string][]string, v Value, path string) error {
	if v.Kind != KindObject {
		return typeError(path, KindObject, v)
	}
	for _, f := range v.Fields {
		fpath := path + "." + f.Key
		chain := f.Value
		// [fonts, {fontFeatureSettings: ...}] tuple form
		if chain.Kind == KindArray && len(chain.Items) > 0 && chain.Items[0].Kind == KindArray {
			if len(chain.Items) > 1 {
				d.ignore(fpath + "[1]")
			}
			chain = chain.Items[0]
		}
		switch chain.Kind {
		case KindString:
			var fonts []string
			for _, part := range strings.Split(chain.Str, ",") {
				if part = strings.TrimSpace(part); part != "" {
					fonts = append(fonts, part)
				}
			}
			out[f.Key] = fonts
		case KindArray:
			fonts := make([]string, 0, len(chain.Items))
			for i, item := range chain.Items {
				if item.Kind != KindString {
					return typeError(fmt.Sprintf("%s[%d]", fpath, i), KindString, item)
				}
				fonts = append(fonts, item.Str)
			}
			out[f.Key] = fonts
		default:
			return typeError(fpath, KindArray, chain)
		}
	}
	return nil
}

func (d *decoder) maxWidth(out map[string]string, v Value, path string) error {
	if v.Kind != KindObject {
		return typeError(path, KindObject, v)
	}
	for _, f := range v.Fields {
		if f.Value.Kind != KindString {
			d.ignore(path + "." + f.Key)
			continue
		}
		out[f.Key] = f.Value.Str
	}
	return nil
}

func (d *decoder) plugins(cfg *theme.Config, v Value) error {
	if v.Kind != KindArray {
		return typeError("plugins", KindArray, v)
	}
	for _, item := range v.Items {
		cfg.Plugins = append(cfg.Plugins, theme.PluginRef(strings.TrimSpace(item.Raw)))
	}
	return nil
}
