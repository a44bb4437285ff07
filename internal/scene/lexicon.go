package scene

// Keyword lexicons for scene classification. These are process-wide immutable
// tables: they are declared once and never mutated at runtime, so the
// analyzer stays a pure function over them.

// typePriority is the fixed tie-break order for scene type classification.
// When two types match the same number of keywords, the earlier entry wins.
var typePriority = []Type{
	TypeDialogue,
	TypeEmotional,
	TypeAction,
	TypeEstablishing,
	TypeTransition,
}

// tonePriority is the fixed tie-break order for tone classification.
var tonePriority = []Tone{
	ToneIntimate,
	ToneTense,
	ToneDramatic,
	ToneContemplative,
	ToneNeutral,
}

// typeLexicon maps each scene type to its trigger keywords.
// Matching is case-insensitive substring containment.
var typeLexicon = map[Type][]string{
	TypeDialogue: {
		"dialogue", "conversation", "talk", "speak", "says", "asks",
		"replies", "discussion", "argue", "negotiat", "interview",
	},
	TypeAction: {
		"fight", "running", "chase", "motion", "combat", "battle",
		"leap", "dodge", "sprint", "strike", "explosion", "escape",
	},
	TypeEmotional: {
		"emotional", "tears", "crying", "grief", "joy", "revelation",
		"heartbreak", "confession", "embrace", "longing", "despair",
	},
	TypeEstablishing: {
		"establishing", "wide view", "landscape", "cityscape", "arrives at",
		"exterior", "overlooking", "panorama", "skyline",
	},
	TypeTransition: {
		"transition", "later that", "meanwhile", "montage", "passage of time",
		"walks away", "fades", "departs",
	},
}

// toneLexicon maps each tone to its trigger keywords.
var toneLexicon = map[Tone][]string{
	ToneTense: {
		"tense", "danger", "threat", "nervous", "standoff", "suspense",
		"fear", "trapped", "urgent",
	},
	ToneIntimate: {
		"intimate", "close", "whisper", "tender", "gentle", "quiet moment",
		"alone together", "soft",
	},
	ToneDramatic: {
		"dramatic", "betrayal", "shocking", "confront", "climax",
		"devastat", "fury", "defiant",
	},
	ToneContemplative: {
		"contemplative", "reflect", "pondering", "memories", "thinking",
		"stares out", "silence", "wistful",
	},
	// ToneNeutral has no triggers: it is the fallback when nothing matches.
	ToneNeutral: {},
}
