package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "pattern":
			return "パターンに一致しません"
		case "not_multiple":
			return "倍数ではありません"
		case "invalid_enum":
			return "列挙値が不正です"
		case "invalid_literal":
			return "リテラル値が不正です"
		case "not_unique":
			return "要素が重複しています"
		case "discriminator_missing":
			return "判別子がありません"
		case "discriminator_unknown":
			return "未知のバリアントです"
		case "union_no_match":
			return "どのバリアントにも一致しません"
		case "ref_unresolved":
			return "参照を解決できません"
		case "hook_error":
			return "検証フックが失敗しました"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "pattern":
			return "does not match pattern"
		case "not_multiple":
			return "not a multiple"
		case "invalid_enum":
			return "invalid enum member"
		case "invalid_literal":
			return "invalid literal value"
		case "not_unique":
			return "items are not unique"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown variant"
		case "union_no_match":
			return "no union variant matched"
		case "ref_unresolved":
			return "unresolvable reference"
		case "hook_error":
			return "validation hook failed"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var current Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in dictionary language ("en", "ja").
func SetLanguage(lang string) { current = dictTranslator{lang: lang} }

// SetTranslator replaces the active translator.
func SetTranslator(t Translator) {
	if t != nil {
		current = t
	}
}

// T returns the message for code using the active translator.
func T(code string, data map[string]string) string {
	return current.Message(code, data)
}
