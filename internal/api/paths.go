package api

// GJSON paths for extracting values from generateContent responses.
const (
	PathError        = "error"
	PathErrorCode    = "error.code"
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
	PathErrorReasons = "error.details.#.reason"

	PathBlockReason  = "promptFeedback.blockReason"
	PathModelVersion = "modelVersion"

	PathCandidates   = "candidates"
	PathFirstCand    = "candidates.0"
	PathCandParts    = "content.parts"
	PathCandFinish   = "finishReason"
	PathCandGrounded = "groundingMetadata.groundingChunks"

	// Part paths (relative to a part object)
	PathPartText    = "text"
	PathPartThought = "thought"

	// Grounding chunk paths (relative to a chunk object)
	PathChunkURI   = "web.uri"
	PathChunkTitle = "web.title"
)
