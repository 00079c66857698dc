package authz

const (
	RoleTenantAdmin  = "tenant-admin"
	RoleProvisioner  = "provisioner"
	RoleOrchestrator = "orchestrator"
	RoleAnonymous    = "anonymous"
)

const (
	ActionRead      = "read"
	ActionProvision = "provision"
	ActionAdmin     = "admin"
)

const DomainGlobal = "global"

const (
	ObjectTenantOrganizations = "tenant.organizations"
	ObjectAuthnConfigs        = "authn.configs"
	ObjectIAMChain            = "iam.chain"
	ObjectGatewayInstances    = "gateway.instances"
	ObjectGatewayCache        = "gateway.cache"
	ObjectGatewayTiers        = "gateway.tiers"
)
