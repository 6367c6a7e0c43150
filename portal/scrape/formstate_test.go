package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iptvdesk/go-portal-client/portal/model"
)

const webFormsPage = `<html><body><form method="post" action="./frmCheck.aspx">
	<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="dDwtMTM4;state" />
	<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="CA0B0334" />
	<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="/wEWAg==" />
	<input name="ctl00$ContentPlaceHolder1$tbSerial" type="text" />
</form></body></html>`

func TestExtractFormState_WebForms(t *testing.T) {

	state, err := ExtractFormState(webFormsPage, WebFormsPage)
	require.NoError(t, err)

	assert.Equal(t, "dDwtMTM4;state", state["__VIEWSTATE"])
	assert.Equal(t, "CA0B0334", state["__VIEWSTATEGENERATOR"])
	assert.Equal(t, "/wEWAg==", state["__EVENTVALIDATION"])
}

func TestExtractFormState_WebFormsNameFallback(t *testing.T) {

	// same fields rendered without element ids
	page := `<html><body><form>
		<input type="hidden" name="__VIEWSTATE" value="blob" />
		<input type="hidden" name="__VIEWSTATEGENERATOR" value="GEN" />
	</form></body></html>`

	state, err := ExtractFormState(page, WebFormsPage)
	require.NoError(t, err)

	assert.Equal(t, "blob", state["__VIEWSTATE"])
	assert.Equal(t, "GEN", state["__VIEWSTATEGENERATOR"])
	assert.NotContains(t, state, "__EVENTVALIDATION")
}

func TestExtractFormState_MissingViewStateMeansNoSession(t *testing.T) {

	page := `<html><body><h1>Dealer Login</h1><form>
		<input type="text" name="username" />
	</form></body></html>`

	state, err := ExtractFormState(page, WebFormsPage)
	assert.Nil(t, state)
	assert.ErrorIs(t, err, model.ErrNoSession)
}

func TestExtractFormState_ActivationPage(t *testing.T) {

	page := `<html><body><form method="post">
		<input type="hidden" name="_token" value="csrf123" />
		<input type="text" name="Code" />
		<button type="submit">Activate</button>
	</form></body></html>`

	state, err := ExtractFormState(page, ActivationCodePage)
	require.NoError(t, err)

	assert.Equal(t, "csrf123", state["_token"])
}

func TestExtractFormState_ActivationLoginPageMeansNoSession(t *testing.T) {

	page := `<html><body><form method="post" action="login.php">
		<input type="text" name="username" />
		<input type="password" name="password" />
	</form></body></html>`

	state, err := ExtractFormState(page, ActivationCodePage)
	assert.Nil(t, state)
	assert.ErrorIs(t, err, model.ErrNoSession)
}
