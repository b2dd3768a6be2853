package strip

import "regexp"

// MarkerAttr is the attribute carrying a translation key.
const MarkerAttr = "data-i18n"

// cjk matches one CJK Unified Ideograph, used as the signal that text
// belongs in a translation table rather than in the markup.
const cjk = `[\x{4e00}-\x{9fff}]`

// markedAttrs captures the attribute list of a tag carrying a marker.
const markedAttrs = `([^>]*` + MarkerAttr + `="[^"]*"[^>]*)`

// rule is one pass of the pipeline. Replace uses regexp template syntax.
type rule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// rules run in order; later passes may see text already cleared by
// earlier ones. Every pass needs at least one ideograph to match, so an
// emptied element never matches again.
var rules = []rule{
	{
		name:    "span",
		pattern: regexp.MustCompile(`<span` + markedAttrs + `>` + cjk + `[^<]*</span>`),
		replace: `<span${1}></span>`,
	},
	{
		name:    "div",
		pattern: regexp.MustCompile(`<div` + markedAttrs + `>` + cjk + `[^<]*</div>`),
		replace: `<div${1}></div>`,
	},
	{
		name:    "bare",
		pattern: regexp.MustCompile(`(` + MarkerAttr + `="[^"]*"[^>]*>)` + cjk + `[^<]*`),
		replace: `${1}`,
	},
	{
		name:    "span-mixed",
		pattern: regexp.MustCompile(`<span` + markedAttrs + `>[^<]*` + cjk + `[^<]*</span>`),
		replace: `<span${1}></span>`,
	},
	{
		name:    "section-title",
		pattern: regexp.MustCompile(`<div class="section-title"` + markedAttrs + `>[^<]*` + cjk + `[^<]*</div>`),
		replace: `<div class="section-title"${1}></div>`,
	},
}

// literal is a verbatim replacement for known strings the generic passes
// leave behind, mostly text led by an emoji or a digit.
type literal struct {
	old, new string
}

// A generic "marker followed by text" pass is deliberately absent: the
// literals below cover the known leftovers without touching free text.
var literals = []literal{
	{`data-i18n="challenge.countdown">⚡ 挑战倒计时`, `data-i18n="challenge.countdown">`},
	{`data-i18n="challenge.hours168">168小时挑战`, `data-i18n="challenge.hours168">`},
	{`data-i18n="challenge.remaining">剩余 -- 天`, `data-i18n="challenge.remaining">`},
	{`data-i18n="invite.title">邀请链接`, `data-i18n="invite.title">`},
	{`data-i18n="invite.myCode">我的专属邀请码`, `data-i18n="invite.myCode">`},
	{`data-i18n="invite.copyCode">复制码`, `data-i18n="invite.copyCode">`},
	{`data-i18n="invite.link">🔗 邀请链接`, `data-i18n="invite.link">`},
	{`data-i18n="invite.copyLink">复制链接`, `data-i18n="invite.copyLink">`},
	{`data-i18n="stats.myRecord">我的战绩`, `data-i18n="stats.myRecord">`},
	{`data-i18n="tasks.newbie">新手任务`, `data-i18n="tasks.newbie">`},
	{`data-i18n="status.completed">✅ 已完成`, `data-i18n="status.completed">`},
	{`data-i18n="status.inProgress">进行中`, `data-i18n="status.inProgress">`},
}
