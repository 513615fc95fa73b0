package practicum

import "fmt"

// verdicts maps a review status code to its human-readable text.
var verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

// ParseStatus renders the notification text for a submission. It is a pure
// function of the payload.
func ParseStatus(hw map[string]any) (string, error) {
	name, ok := hw["homework_name"]
	if !ok {
		return "", &MissingKeyError{Key: "homework_name"}
	}
	rawStatus, ok := hw["status"]
	if !ok {
		return "", &MissingKeyError{Key: "status"}
	}
	code, ok := rawStatus.(string)
	if !ok {
		return "", &UnknownStatusError{Status: fmt.Sprint(rawStatus)}
	}
	verdict, ok := verdicts[code]
	if !ok {
		return "", &UnknownStatusError{Status: code}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%v\".%s", name, verdict), nil
}
