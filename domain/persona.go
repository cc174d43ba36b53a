package domain

import "errors"

// Persona selects which expert instruction accompanies a chat request.
// The set is closed; nothing is added or removed at runtime.
type Persona string

const (
	MedicalExpert      Persona = "medical-expert"
	ITEngineer         Persona = "it-engineer"
	BusinessConsultant Persona = "business-consultant"
	EducationExpert    Persona = "education-expert"
	CulinaryExpert     Persona = "culinary-expert"
)

var ErrUnknownPersona = errors.New("unknown persona")

var instructions = map[Persona]string{
	MedicalExpert:      "You are an experienced medical expert. Provide accurate and easy-to-understand information based on medical knowledge. Answer with general health information rather than specific diagnoses or treatment instructions.",
	ITEngineer:         "You are a seasoned IT engineer. Use your expertise in programming, system design, and technical problem solving to give technical, practical advice.",
	BusinessConsultant: "You are an experienced business consultant. Use your expertise in strategy, process improvement, marketing, and management to give practical business advice.",
	EducationExpert:    "You are an expert in the field of education. Use your knowledge of learning methods, educational theory, and skill development to give effective study advice.",
	CulinaryExpert:     "You are a culinary expert. Use your knowledge of nutrition, cooking techniques, and ingredients to give advice on delicious and healthy cooking.",
}

var displayNames = map[Persona]string{
	MedicalExpert:      "Medical Expert",
	ITEngineer:         "IT Engineer",
	BusinessConsultant: "Business Consultant",
	EducationExpert:    "Education Expert",
	CulinaryExpert:     "Culinary Expert",
}

var descriptions = map[Persona]string{
	MedicalExpert:      "General health and medical information",
	ITEngineer:         "Programming and technical problem solving",
	BusinessConsultant: "Business strategy and process improvement",
	EducationExpert:    "Learning methods and skill development",
	CulinaryExpert:     "Cooking techniques and nutrition",
}

// Personas returns the closed persona set in display order.
func Personas() []Persona {
	return []Persona{
		MedicalExpert,
		ITEngineer,
		BusinessConsultant,
		EducationExpert,
		CulinaryExpert,
	}
}

// Instruction returns the system instruction for a persona.
func Instruction(p Persona) (string, error) {
	instruction, ok := instructions[p]
	if !ok {
		return "", ErrUnknownPersona
	}
	return instruction, nil
}

// ParsePersona validates a raw identifier against the closed set.
func ParsePersona(raw string) (Persona, error) {
	p := Persona(raw)
	if _, ok := instructions[p]; !ok {
		return "", ErrUnknownPersona
	}
	return p, nil
}

func DisplayName(p Persona) string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

func Description(p Persona) string {
	return descriptions[p]
}
