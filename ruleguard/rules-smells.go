package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards returning the same value => combinable with ||
	//   if a { return err }
	//   if b { return err }
	// => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// Wrapping without %w loses the cause for errors.Is / errors.As.
	m.Match(`fmt.Errorf($fmt, $*_, $err)`).
		Where(m["err"].Type.Implements("error") && !m["fmt"].Text.Matches(`.*%w.*`)).
		Report(`wrapping an error without %w hides it from errors.Is and errors.As`)

	// Executors and outbound calls must respect cancellation.
	m.Match(`context.Background()`).
		Where(m.File().Name.Matches(`.*internal/tools/.*`) && !m.File().Name.Matches(`.*_test\.go`)).
		Report(`tool bodies receive a request context; do not start a fresh one`)
}
