package prompts

// NoContext stands in for an empty context so the model can say it lacks one.
const NoContext = "No context was provided."

var (
	SUMMARY_PROMPT = SYS_PROMPT{
		Intent:         "Summary",
		CurrentVersion: 0.2,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: "Summarize the following text:\n\n%s",
			},
			0.2: {
				Version: 0.2,
				Content: "Summarize the following transcript of an audio note in a few concise sentences. " +
					"Reply in the language of the transcript.\n\n%s",
			},
		},
	}

	ANSWER_PROMPT = SYS_PROMPT{
		Intent:         "Answer",
		CurrentVersion: 0.2,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: "Based on the following context, answer the question.\n\nContext: %s\n\nQuestion: %s",
			},
			0.2: {
				Version: 0.2,
				Content: "Based on the following context, answer the question. " +
					"If the context does not contain the answer, say so briefly.\n\nContext: %s\n\nQuestion: %s",
			},
		},
	}
)
