package validator

import "fmt"

// englishErrorMessage renders a validation failure in English. This is
// the default locale and also the fallback for any tag a translated
// locale doesn't special-case.
func englishErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "isoweekday":
		return fmt.Sprintf("%s must be an ISO weekday between 1 and 7", field)
	case "weekdayset":
		return fmt.Sprintf("%s must be a set of distinct ISO weekdays between 1 and 7", field)
	case "langcode":
		return fmt.Sprintf("%s must be one of the supported language codes", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// russianErrorMessage renders a validation failure in Russian, falling
// back to the English message for any tag without a translation.
func russianErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s обязательно для заполнения", field)
	case "min":
		return fmt.Sprintf("%s должно быть не менее %s", field, param)
	case "max":
		return fmt.Sprintf("%s должно быть не более %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s должно быть одним из [%s]", field, param)
	case "email":
		return fmt.Sprintf("%s должно быть действительным адресом электронной почты", field)
	case "isoweekday":
		return fmt.Sprintf("%s должно быть днем недели от 1 до 7", field)
	case "weekdayset":
		return fmt.Sprintf("%s должно быть набором различных дней недели от 1 до 7", field)
	case "langcode":
		return fmt.Sprintf("%s должно быть одним из поддерживаемых языков", field)
	default:
		return englishErrorMessage(field, tag, param)
	}
}

// kazakhErrorMessage renders a validation failure in Kazakh, falling
// back to the English message for any tag without a translation.
func kazakhErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s міндетті түрде толтырылуы керек", field)
	case "min":
		return fmt.Sprintf("%s кемінде %s болуы керек", field, param)
	case "max":
		return fmt.Sprintf("%s ең көбі %s болуы керек", field, param)
	case "oneof":
		return fmt.Sprintf("%s келесілердің біреуі болуы керек: [%s]", field, param)
	case "email":
		return fmt.Sprintf("%s жарамды электрондық пошта мекенжайы болуы керек", field)
	case "isoweekday":
		return fmt.Sprintf("%s 1 мен 7 аралығындағы апта күні болуы керек", field)
	case "weekdayset":
		return fmt.Sprintf("%s 1 мен 7 аралығындағы қайталанбайтын апта күндерінің жиыны болуы керек", field)
	case "langcode":
		return fmt.Sprintf("%s қолдау көрсетілетін тілдердің біреуі болуы керек", field)
	default:
		return englishErrorMessage(field, tag, param)
	}
}
