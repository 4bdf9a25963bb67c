package ollama

import "math/rand/v2"

// Topics are the fixed question themes; one is picked per generation.
var Topics = []string{
	"the global rail industry",
	"the Australian rail industry, including specific lines or projects",
	"Siemens Mobility's innovations in rail technology",
	"an engaging fact about high-speed trains",
	"a historical fact about Australian railways",
}

// ExampleQuestion is embedded verbatim in every prompt to steer the output format.
const ExampleQuestion = `{"question": "What is the standard gauge of a railway track?", "options": ["1435 mm", "1520 mm", "1600 mm", "1067 mm"], "answer": "1435 mm"}`

// BuildPrompt returns the instruction sent to the model for topic.
func BuildPrompt(topic string) string {
	return "Generate a multiple-choice question about " + topic + ". " +
		"The question should be engaging for a high school student. " +
		"Format the output as a single, valid JSON object with 'question', 'options' (a list of 4), and 'answer' keys. " +
		"Example: " + ExampleQuestion
}

// RandomTopic picks uniformly from Topics.
func RandomTopic() string {
	return Topics[rand.IntN(len(Topics))]
}
