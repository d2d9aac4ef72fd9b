package client

// Navigator is the UI collaborator the sync core steers. Navigate moves the
// UI to an application-relative route (the server decides when); Alert shows
// a server-declared error to the user and blocks until acknowledged.
type Navigator interface {
	Navigate(route string)
	Alert(message string)
}

// fallbackErrorMessage is shown when an error envelope carries no text.
const fallbackErrorMessage = "Unknown error"
