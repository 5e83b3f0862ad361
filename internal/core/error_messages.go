// Package core provides the rule-matching engine of the attribute extractor.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code shown next to an error message.
//
// # Job Errors (JOB001-JOB099)
//
// Terminal failures of an extraction job and job-control errors:
//
//	JOB001 - Input parse: The uploaded files could not be read
//	         Action: Upload .xlsx or .csv files with a header row
//	         Kind: input_parse
//
//	JOB002 - Missing description: The data file has no description column
//	         Action: Add a "Descrição" (or "Description") column
//	         Kind: missing_description_column
//	         Patterns: "missing description column"
//
//	JOB003 - Missing config columns: The configuration file is incomplete
//	         Action: Use the columns "Atributo", "Valor" and "Padrões"
//	         Kind: missing_config_columns
//	         Patterns: "missing configuration columns"
//
//	JOB004 - Extraction failed: Processing stopped unexpectedly
//	         Action: Please try again or contact support
//	         Kind: extraction
//
//	JOB005 - Job in progress: Another file is being processed
//	         Action: Wait for the current job to finish
//	         Patterns: "job already in progress"
//
//	JOB006 - No result: There is no processed file to download
//	         Action: Process a file first
//	         Patterns: "result not available"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Unsupported file type ("unsupported file type")
//	FILE003 - Encoding error ("encoding error")
//	FILE004 - No file ("no file provided")
//	FILE005 - Empty file ("empty file")
//	FILE006 - Invalid file name ("invalid filename")
//
// # Rate Limiting (RATE001-RATE002)
//
//	RATE001 - Too many requests ("rate limit")
//	RATE002 - Upload slots busy ("too many concurrent uploads")
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the server log for the technical
// error logged with the same request id.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgInputParse = UserMessage{
		Message: "The uploaded files could not be read",
		Action:  "Upload .xlsx or .csv files with a header row",
		Code:    "JOB001",
	}
	msgMissingDescription = UserMessage{
		Message: "The data file has no description column",
		Action:  `Add a "Descrição" (or "Description") column`,
		Code:    "JOB002",
	}
	msgMissingConfigColumns = UserMessage{
		Message: "The configuration file is missing required columns",
		Action:  `Use the columns "Atributo", "Valor" and "Padrões"`,
		Code:    "JOB003",
	}
	msgExtraction = UserMessage{
		Message: "Processing stopped unexpectedly",
		Action:  "Please try again or contact support",
		Code:    "JOB004",
	}
)

// failureMessages holds the fixed message of each failure kind.
var failureMessages = map[FailureKind]UserMessage{
	FailureInputParse:           msgInputParse,
	FailureMissingDescription:   msgMissingDescription,
	FailureMissingConfigColumns: msgMissingConfigColumns,
	FailureExtraction:           msgExtraction,
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. The first matching pattern wins, so specific patterns go first.
var errorPatterns = []errorPattern{
	// Job errors
	{pattern: "missing description column", msg: msgMissingDescription},
	{pattern: "missing configuration columns", msg: msgMissingConfigColumns},
	{
		pattern: "job already in progress",
		msg: UserMessage{
			Message: "Another file is being processed",
			Action:  "Wait for the current job to finish",
			Code:    "JOB005",
		},
	},
	{
		pattern: "result not available",
		msg: UserMessage{
			Message: "There is no processed file to download",
			Action:  "Process a file first",
			Code:    "JOB006",
		},
	},

	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller workbooks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload an .xlsx or .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "Both files must be selected",
			Action:  "Select a data file and a configuration file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid filename",
		msg: UserMessage{
			Message: "The file name is not valid",
			Action:  "Rename the file using letters and digits",
			Code:    "FILE006",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "The server is busy receiving other files",
			Action:  "Please try again in a few seconds",
			Code:    "RATE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Job
// failures map by kind; anything else is matched against errorPatterns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if f, ok := err.(*Failure); ok {
		return f.UserMessage()
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
