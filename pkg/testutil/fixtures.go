package testutil

// SampleTemplate is a packaged template carrying every anchor and
// substitution target the wizard writes.
const SampleTemplate = `# vim: ft=make
about::
	@echo "templates.conf"

# [=setup info start=]
# old info
# [=setup info stop=]

RELEASE ?= 3
SSH_ACCESS ?= 0
GIT_BASEURL ?= https://github.com
GIT_PREFIX ?= vanir/vanir-
TEMPLATE_ONLY ?= 0
#USE_VANIR_REPO_TESTING ?= 0
# USE_VANIR_REPO_VERSION = $(RELEASE)
#INCLUDE_OVERRIDE_CONF ?= true

# [=setup dists start=]
DISTS_VM := fc30
# [=setup dists stop=]

# [=setup plugins start=]
BUILDER_PLUGINS := builder-rpm
# [=setup plugins stop=]
`

// SampleData is a primary data file with one of each section type
const SampleData = `[makefile]
release = "3"

[releases]
default = "4"
"3" = "Release 3"
"4" = "Release 4"

[vanir-signing]
type = "gpg"
key = "0x1234567890ABCDEF"
owner = "Vanir"
verify = "fpr:::::::::1234567890ABCDEF:"

[stable]
type = "repo"
description = "Stable repositories"
prefix = "vanir/vanir-"

[builder-rpm]
type = "builder"
description = "RPM builder"
require_in = "fc fedora"

[builder-debian]
type = "builder"
description = "Debian builder"
require = ["builder-rpm"]
require_in = ["stretch", "buster"]
optional = "whonix"

[builder-dev]
type = "builder"
description = "Experimental"
development = "yes"
key = "ABCDEF0123456789"
owner = "Upstream"
verify = "fpr:::::::::ABCDEF0123456789:"
`

// DefaultBuildVars are the values the fake build tool reports
var DefaultBuildVars = map[string]string{
	"RELEASE":                "3",
	"SSH_ACCESS":             "0",
	"TEMPLATE_ONLY":          "0",
	"BUILDER_PLUGINS_ALL":    "builder-rpm",
	"GIT_BASEURL":            "https://github.com",
	"GIT_PREFIX":             "vanir/vanir-",
	"USE_VANIR_REPO_VERSION": "",
	"USE_VANIR_REPO_TESTING": "0",
	"DISTS_VM":               "fc30",
	"DIST_DOM0":              "fc29",
	"TEMPLATE_ALIAS":         "fc30:fedora-30 stretch:debian-9",
	"TEMPLATE_LABEL":         "fedora-30:Fedora-30 debian-9:Debian-9",
}

// DefaultAllValues are reported for queries in enumerate-all mode
var DefaultAllValues = map[string]string{
	"DISTS_VM": "fc30 stretch buster",
}
