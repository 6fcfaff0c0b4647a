/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// get_url/get_title/get_lang are thin convenience wrappers over
// mdast.Attribute (SPEC_FULL.md's supplemented-feature item 6), sparing
// query authors the `.url`/`.title`/`.lang` selector-attribute spelling for
// the handful of node kinds that carry these attributes under different
// field names (Code's `.lang` vs Link's `.url`/`.title`).
package builtin

import (
	"github.com/harehare/mq/mdast"
	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "get_url", MinArity: 1, MaxArity: 1, Doc: "the URL of a link/image/definition value, or None", Call: mdAttr("url")})
	register(Spec{Name: "get_title", MinArity: 1, MaxArity: 1, Doc: "the title of a link/image/definition value, or None", Call: mdAttr("title")})
	register(Spec{Name: "get_lang", MinArity: 1, MaxArity: 1, Doc: "the language tag of a fenced code block value, or None", Call: mdAttr("lang")})
}

func mdAttr(name string) Fn {
	return func(_ Applier, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		if v.Kind != value.KindMarkdown {
			return value.None, typeErr("get_"+name, 0, "markdown", v)
		}
		attr, ok := mdast.Attribute(v.Markdown, name)
		if !ok {
			return value.None, nil
		}
		switch a := attr.(type) {
		case string:
			return value.String(a), nil
		case float64:
			return value.Number(a), nil
		case bool:
			return value.Bool(a), nil
		default:
			return value.None, nil
		}
	}
}
