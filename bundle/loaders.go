package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// Loader names.  Each also accepts a "-loader" suffix, as in "file-loader".
const (
	loaderStyle  = `style`  // injects CSS text into a <style> element at run time
	loaderCSS    = `css`    // resolves url() references and exports the stylesheet text
	loaderFile   = `file`   // emits the file as a separate asset and exports its URL
	loaderScript = `script` // evaluates the file in global scope
	loaderRaw    = `raw`    // exports the file text
)

// inlineNamespace holds modules imported with an inline chain, like "script!./lib/Cesium.js".
const inlineNamespace = `globe-inline`

type rule struct {
	test  *regexp.Regexp
	chain []string
}

func compileRules(rules []Rule) ([]rule, error) {
	seq := make([]rule, 0, len(rules))
	for i, r := range rules {
		rx, err := regexp.Compile(r.Test)
		if err != nil {
			return nil, fmt.Errorf(`loader rule %d (%q): %w`, i+1, r.Test, err)
		}
		chain, err := parseChain(r.Loader)
		if err != nil {
			return nil, fmt.Errorf(`loader rule %d (%q): %w`, i+1, r.Test, err)
		}
		if len(chain) == 0 {
			return nil, fmt.Errorf(`loader rule %d (%q): no loader specified`, i+1, r.Test)
		}
		seq = append(seq, rule{rx, chain})
	}
	return seq, nil
}

// parseChain splits a chain like "style!css" into loader names, outermost first.  Empty segments, as in "!!css", and
// loader options after "?" are dropped.
func parseChain(spec string) ([]string, error) {
	var chain []string
	for _, name := range strings.Split(spec, `!`) {
		name, _, _ = strings.Cut(strings.TrimSpace(name), `?`)
		name = strings.TrimSuffix(name, `-loader`)
		switch name {
		case ``:
			continue
		case loaderStyle, loaderCSS, loaderFile, loaderScript, loaderRaw:
			chain = append(chain, name)
		default:
			return nil, fmt.Errorf(`unknown loader %q`, name)
		}
	}
	switch {
	case len(chain) == 0:
	case len(chain) == 1 && chain[0] == loaderStyle:
		return nil, fmt.Errorf(`the style loader needs css or raw after it, as in "style!css"`)
	case len(chain) == 2 && chain[0] == loaderStyle && (chain[1] == loaderCSS || chain[1] == loaderRaw):
	case len(chain) > 1:
		return nil, fmt.Errorf(`unsupported loader chain %q`, strings.Join(chain, `!`))
	}
	return chain, nil
}

// loaderPlugin applies configured rules, first match wins, and inline chains, which replace any configured rule for
// that import.
func loaderPlugin(rules []rule) esbuild.Plugin {
	return esbuild.Plugin{
		Name: `globe-loaders`,
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: `!`}, func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
				return resolveInline(build, args)
			})
			build.OnLoad(esbuild.OnLoadOptions{Filter: `.*`, Namespace: inlineNamespace}, func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
				chain, _ := args.PluginData.([]string)
				return load(args.Path, chain)
			})
			for _, r := range rules {
				r := r
				build.OnLoad(esbuild.OnLoadOptions{Filter: r.test.String(), Namespace: `file`}, func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
					return load(args.Path, r.chain)
				})
			}
		},
	}
}

func resolveInline(build esbuild.PluginBuild, args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
	i := strings.LastIndex(args.Path, `!`)
	spec, path := args.Path[:i], args.Path[i+1:]
	chain, err := parseChain(spec)
	if err != nil {
		return esbuild.OnResolveResult{}, fmt.Errorf(`%w in %q`, err, args.Path)
	}
	res := build.Resolve(path, esbuild.ResolveOptions{
		Importer:   args.Importer,
		ResolveDir: args.ResolveDir,
		Kind:       args.Kind,
	})
	if len(res.Errors) > 0 {
		return esbuild.OnResolveResult{Errors: res.Errors}, nil
	}
	// an empty chain, as in "!!path", loads the file with esbuild's loader for its extension.
	return esbuild.OnResolveResult{Path: res.Path, Namespace: inlineNamespace, PluginData: chain}, nil
}

// extensionLoaders are esbuild's default loaders, used when an inline chain names no loader.
var extensionLoaders = map[string]esbuild.Loader{
	`.js`:   esbuild.LoaderJS,
	`.mjs`:  esbuild.LoaderJS,
	`.cjs`:  esbuild.LoaderJS,
	`.jsx`:  esbuild.LoaderJSX,
	`.ts`:   esbuild.LoaderTS,
	`.tsx`:  esbuild.LoaderTSX,
	`.css`:  esbuild.LoaderCSS,
	`.json`: esbuild.LoaderJSON,
	`.txt`:  esbuild.LoaderText,
}

// load applies a loader chain, right to left, to the file at path.
func load(path string, chain []string) (esbuild.OnLoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return esbuild.OnLoadResult{}, err
	}
	ret := esbuild.OnLoadResult{
		ResolveDir: filepath.Dir(path),
		WatchFiles: []string{path},
		Loader:     esbuild.LoaderJS,
	}
	var src string
	switch strings.Join(chain, `!`) {
	case ``:
		loader, ok := extensionLoaders[filepath.Ext(path)]
		if !ok {
			return ret, fmt.Errorf(`no loader for %q without a loader chain`, filepath.Base(path))
		}
		src = string(data)
		ret.Loader = loader
	case loaderFile:
		src = string(data)
		ret.Loader = esbuild.LoaderFile
	case loaderScript:
		src = `(0, eval)(` + jsString(string(data)+"\n//# sourceURL="+filepath.Base(path)) + `);` + "\n"
	case loaderRaw:
		src = `export default ` + jsString(string(data)) + ";\n"
	case loaderCSS:
		imports, expr := cssModule(string(data))
		src = imports + `export default ` + expr + ";\n"
	case loaderStyle + `!` + loaderCSS:
		imports, expr := cssModule(string(data))
		src = imports + styleModule(expr)
	case loaderStyle + `!` + loaderRaw:
		src = styleModule(jsString(string(data)))
	default:
		return ret, fmt.Errorf(`unsupported loader chain %q`, strings.Join(chain, `!`))
	}
	ret.Contents = &src
	return ret, nil
}

// cssURL matches url(...) references with or without quotes.
var cssURL = regexp.MustCompile(`url\(\s*(?:"([^"]*)"|'([^']*)'|([^'")\s]*))\s*\)`)

// cssImport matches @import rules, capturing the reference and any media query after it.
var cssImport = regexp.MustCompile(`@import\s+(?:url\(\s*(?:"([^"]*)"|'([^']*)'|([^'")\s]*))\s*\)|"([^"]*)"|'([^']*)')([^;]*);`)

// cssModule turns a stylesheet into import statements and a JavaScript expression that evaluates to the stylesheet
// text.  Relative @import rules become side-effect imports, so the imported sheet is loaded by its own rule, and are
// dropped from the text.  Relative url() references are imported and replaced by the imported URLs.  An @import with
// a media query is kept as written.
func cssModule(css string) (imports string, expr string) {
	w := cssWriter{idents: make(map[string]string)}
	last := 0
	for _, m := range cssImport.FindAllStringSubmatchIndex(css, -1) {
		ref := submatch(css, m, 1, 5)
		w.urls(css[last:m[0]])
		last = m[1]
		if !relativeURL(ref) || strings.TrimSpace(css[m[12]:m[13]]) != `` {
			w.text.WriteString(css[m[0]:m[1]])
			continue
		}
		target, _ := moduleRef(ref)
		fmt.Fprintf(&w.head, "import %s;\n", jsString(target))
	}
	w.urls(css[last:])
	return w.head.String(), w.expr()
}

type cssWriter struct {
	head   strings.Builder
	text   strings.Builder // literal text not yet added to parts
	parts  []string
	idents map[string]string
}

// urls copies css, importing each relative url() reference.
func (w *cssWriter) urls(css string) {
	last := 0
	for _, m := range cssURL.FindAllStringSubmatchIndex(css, -1) {
		ref := submatch(css, m, 1, 3)
		if !relativeURL(ref) {
			continue
		}
		target, suffix := moduleRef(ref)
		ident, ok := w.idents[target]
		if !ok {
			ident = fmt.Sprintf(`__globe_url_%d`, len(w.idents))
			w.idents[target] = ident
			fmt.Fprintf(&w.head, "import %s from %s;\n", ident, jsString(target))
		}
		w.text.WriteString(css[last:m[0]] + `url("`)
		w.parts = append(w.parts, jsString(w.text.String()), ident)
		w.text.Reset()
		w.text.WriteString(suffix + `")`)
		last = m[1]
	}
	w.text.WriteString(css[last:])
}

func (w *cssWriter) expr() string {
	return strings.Join(append(w.parts, jsString(w.text.String())), ` + `)
}

// submatch returns the first matched group from first to last.
func submatch(s string, m []int, first, last int) string {
	for g := first; g <= last; g++ {
		if m[2*g] >= 0 {
			return s[m[2*g]:m[2*g+1]]
		}
	}
	return ``
}

// moduleRef converts a CSS reference into an import path and the query or fragment that followed it.  A "~" prefix
// names a package; anything else is relative to the stylesheet.
func moduleRef(ref string) (target, suffix string) {
	target = ref
	if i := strings.IndexAny(ref, `?#`); i >= 0 {
		target, suffix = ref[:i], ref[i:]
	}
	if strings.HasPrefix(target, `~`) {
		return target[1:], suffix
	}
	if !strings.HasPrefix(target, `./`) && !strings.HasPrefix(target, `../`) {
		target = `./` + target
	}
	return target, suffix
}

func relativeURL(ref string) bool {
	if ref == `` {
		return false
	}
	for _, prefix := range []string{`data:`, `http:`, `https:`, `//`, `/`, `#`, `about:`} {
		if strings.HasPrefix(ref, prefix) {
			return false
		}
	}
	return true
}

// styleModule injects the CSS produced by expr when the module is evaluated in a document.
func styleModule(expr string) string {
	return `var css = ` + expr + `;
if (typeof document !== "undefined") {
  var style = document.createElement("style");
  style.setAttribute("type", "text/css");
  style.appendChild(document.createTextNode(css));
  (document.head || document.getElementsByTagName("head")[0]).appendChild(style);
}
export default css;
`
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode.
	return strings.TrimSuffix(buf.String(), "\n")
}
