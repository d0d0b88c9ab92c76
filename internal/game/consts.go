package game

const (
	SimHz        = 60.0 // server tick rate
	Dt           = 1.0 / SimHz
	UpdateRateHz = 20.0 // per-client WS state pushes
	WorldSize    = 8400.0
	WorldHalf    = WorldSize / 2

	DefaultViewW = 1024.0
	DefaultViewH = 768.0

	PlayerRadius    = 16.0
	EnemyRadius     = 12.0
	GuardianRadius  = 24.0
	PickupRadius    = 16.0
	ObjectiveRadius = 32.0
	BulletRadius    = 4.0
	RocketRadius    = 8.0

	EnemyProjectileLifetimeS = 3.0
)
