package variant

import "github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
