package messages

const (
	BadStatusCodeMsg    = "API returned status code %d on URL %s"
	CouldNotFindId      = "couldn't find the %s Id"
	FailedToParseMsg    = "failed to parse API response"
	FiltersNotNil       = "filters can't be nil"
	InvalidPlayerId     = "invalid player id %q"
	InvalidSeason       = "invalid season %q, expected the YYYY-YY format"
	InvalidSeasonType   = "invalid season type %q"
	MissingColumns      = "result set %s is missing the columns %v"
	MissingResultSet    = "result set %s not found in the response"
	OperationInProgress = "operation already in progress, please wait"
	RequestFailedMsg    = "API request failed on URL %s"
)
